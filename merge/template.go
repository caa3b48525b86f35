package merge

import (
	"github.com/bep/inflect"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rykov/convocgen/config"
	"github.com/rykov/convocgen/parser"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/yuin/goldmark"

	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
)

// Renderer produces the merged document from the whole dataset
type Renderer interface {
	Render(w io.Writer, ds Dataset) error
}

// RenderFunc adapts a plain function to Renderer
type RenderFunc func(w io.Writer, ds Dataset) error

func (f RenderFunc) Render(w io.Writer, ds Dataset) error {
	return f(w, ds)
}

// Template is an html/template whose dot is the Dataset. Front
// matter values are available through the "param" function.
type Template struct {
	Path   string
	Params map[string]any

	tmpl *template.Template
}

func (t *Template) Render(w io.Writer, ds Dataset) error {
	return t.tmpl.Execute(w, ds)
}

// Cells come from people we don't control
var cellPolicy = bluemonday.UGCPolicy()

func (t *Template) funcMap() template.FuncMap {
	return template.FuncMap{
		"param": func(key string) string {
			return cast.ToString(t.Params[strings.ToLower(key)])
		},
		"fullname": func(r Record) string {
			return r.FullName()
		},
		"humanize": inflect.Humanize,
		"markdown": renderMarkdown,
		"sanitize": func(s string) template.HTML {
			return template.HTML(cellPolicy.Sanitize(s))
		},
		"join": strings.Join,
	}
}

func renderMarkdown(s string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(s), &buf); err != nil {
		return "", err
	}
	return template.HTML(cellPolicy.SanitizeBytes(buf.Bytes())), nil
}

// LoadTemplate reads and parses the configured template file
func LoadTemplate(cfg *config.AConfig) (*Template, error) {
	path := cfg.Template
	log := cfg.Log.WithField("path", path)
	log.Debug("Loading template...")

	if cfg.AppFs.IsDir(path) {
		return nil, fmt.Errorf("%w: %s is a directory", ErrTemplateUnreadable, path)
	}

	raw, err := afero.ReadFile(cfg.AppFs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateUnreadable, path, err)
	} else if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTemplateUnreadable, path)
	}

	t, err := ParseTemplate(path, raw)
	if err != nil {
		return nil, err
	}

	log.Debug("Template loaded")
	return t, nil
}

// ParseTemplate splits off front matter and parses the body
func ParseTemplate(name string, raw []byte) (*Template, error) {
	page, err := parser.ReadFrom(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateInvalid, name, err)
	}

	meta, err := page.Metadata()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: front matter: %w", ErrTemplateInvalid, name, err)
	}

	t := &Template{Path: name, Params: keysToLower(meta)}
	t.tmpl, err = template.New(filepath.Base(name)).Funcs(t.funcMap()).Parse(string(page.Content()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateInvalid, err)
	}

	return t, nil
}

func keysToLower(data map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range data {
		out[strings.ToLower(k)] = v
	}
	return out
}
