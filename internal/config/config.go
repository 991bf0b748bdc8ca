// Package config builds the immutable server configuration from command-line arguments.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// DefaultPort is used when no port argument is given.
	DefaultPort = 8888

	// SiteDir is the folder next to the executable's directory that holds the pages.
	SiteDir = "SD_Vortex"
)

// ErrInvalidPort is returned by Load when the port argument cannot be used.
var ErrInvalidPort = errors.New("invalid port")

// Config holds everything the server needs. It is built once at startup and
// never mutated afterwards.
type Config struct {
	Port            int
	Root            string // absolute directory files are served from
	Types           MimeTable
	ShutdownTimeout time.Duration
	WatchRoot       bool // log changes under Root
}

// DefaultConfig returns the configuration used when no arguments are given.
func DefaultConfig() *Config {
	return &Config{
		Port:            DefaultPort,
		Root:            DefaultRoot(),
		Types:           DefaultMimeTable(),
		ShutdownTimeout: 5 * time.Second,
		WatchRoot:       true,
	}
}

// Load parses args (without the program name). The only accepted argument is
// an optional positional port.
func Load(args []string, stderr io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("testserver", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(fs.Output(), "Usage: testserver [port]")
		_, _ = fmt.Fprintf(fs.Output(), "\nServes %s/ over HTTP on the given port (default %d).\n", SiteDir, DefaultPort)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	if fs.NArg() == 1 {
		port, err := ParsePort(fs.Arg(0))
		if err != nil {
			return nil, err
		}
		cfg.Port = port
	}
	return cfg, nil
}

// ParsePort converts a port argument. Zero is accepted and lets the OS pick a port.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: not a number", ErrInvalidPort, s)
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("%w %d: out of range", ErrInvalidPort, port)
	}
	return port, nil
}

// DefaultRoot resolves SiteDir one level above the executable's directory.
// Falls back to the working directory if the executable path is unknown.
func DefaultRoot() string {
	base, err := os.Executable()
	if err == nil {
		base = filepath.Dir(base)
	} else if base, err = os.Getwd(); err != nil {
		base = "."
	}
	root, err := filepath.Abs(filepath.Join(base, "..", SiteDir))
	if err != nil {
		return filepath.Join(base, "..", SiteDir)
	}
	return root
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
