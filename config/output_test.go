package config

import (
	"github.com/spf13/afero"

	"bytes"
	"io"
	"testing"
)

func writeTo(t *testing.T, fs afero.Fs, target OutputTarget, content string) {
	t.Helper()
	w, err := target.Open(fs)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestResolveOutput(t *testing.T) {
	for _, p := range []string{"", "-"} {
		if _, ok := ResolveOutput(p).(StdOutput); !ok {
			t.Errorf("ResolveOutput(%q) should be stdout", p)
		}
	}
	if o, ok := ResolveOutput("out.html").(FileOutput); !ok || o.Path != "out.html" {
		t.Errorf("ResolveOutput should return file target, got %#v", o)
	}
}

func TestFileOutputTruncates(t *testing.T) {
	fs := afero.NewMemMapFs()
	target := FileOutput{Path: "out/result.html"}
	fs.MkdirAll("out", 0755)

	writeTo(t, fs, target, "first run with a longer body")
	writeTo(t, fs, target, "second")

	raw, err := afero.ReadFile(fs, target.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "second" {
		t.Errorf("Expected truncated output, got %q", raw)
	}
}

func TestStdOutputKeepsStreamOpen(t *testing.T) {
	var buf bytes.Buffer
	target := StdOutput{W: &buf}

	writeTo(t, nil, target, "a")
	writeTo(t, nil, target, "b")

	if buf.String() != "ab" {
		t.Errorf("Expected both writes on stream, got %q", buf.String())
	}
	if target.String() != "stdout" {
		t.Errorf("Unexpected name %q", target.String())
	}
}
