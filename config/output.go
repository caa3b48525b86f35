package config

import (
	"github.com/spf13/afero"

	"io"
	"os"
)

// OutputTarget is where the merged document is written: either
// a file (created or truncated on open) or the standard stream.
type OutputTarget interface {
	Open(fs afero.Fs) (io.WriteCloser, error)
	String() string

	isOutputTarget()
}

// ResolveOutput maps the --output value to a target.
// Empty and "-" select the standard stream.
func ResolveOutput(path string) OutputTarget {
	if path == "" || path == "-" {
		return StdOutput{}
	}
	return FileOutput{Path: path}
}

// FileOutput writes to a named file, never appending
type FileOutput struct {
	Path string
}

func (o FileOutput) Open(fs afero.Fs) (io.WriteCloser, error) {
	return fs.OpenFile(o.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

func (o FileOutput) String() string { return o.Path }

func (FileOutput) isOutputTarget() {}

// StdOutput writes to W, or os.Stdout when W is nil.
// Closing it leaves the underlying stream open.
type StdOutput struct {
	W io.Writer
}

func (o StdOutput) Open(afero.Fs) (io.WriteCloser, error) {
	w := o.W
	if w == nil {
		w = os.Stdout
	}
	return nopCloser{w}, nil
}

func (o StdOutput) String() string { return "stdout" }

func (StdOutput) isOutputTarget() {}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
