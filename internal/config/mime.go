package config

// MimeTable maps dot-prefixed, case-sensitive file extensions to the
// Content-Type sent for them. Extensions missing from the table are not served.
type MimeTable struct {
	types map[string]string
}

// DefaultMimeTable returns the table of servable file kinds.
func DefaultMimeTable() MimeTable {
	return NewMimeTable(map[string]string{
		".html": "text/html",
		".css":  "text/css",
		".js":   "application/javascript",
		".png":  "image/png",
		".gif":  "image/gif",
		".jpg":  "image/jpeg",
	})
}

// NewMimeTable copies types so later changes to the map do not leak into the table.
func NewMimeTable(types map[string]string) MimeTable {
	m := make(map[string]string, len(types))
	for ext, typ := range types {
		m[ext] = typ
	}
	return MimeTable{types: m}
}

// Lookup returns the MIME type for ext and whether it is supported.
func (t MimeTable) Lookup(ext string) (string, bool) {
	typ, ok := t.types[ext]
	return typ, ok
}

// Len returns the number of supported extensions.
func (t MimeTable) Len() int {
	return len(t.types)
}
