package parser

import (
	"bytes"
	"fmt"
	"io"
)

// Template is a template file split into its optional
// front matter and the body handed to the template engine
type Template interface {
	Content() []byte
	Metadata() (map[string]any, error)
}

type page struct {
	frontmatter []byte
	content     []byte
}

func (p *page) Content() []byte { return p.content }

// Metadata decodes the front matter, nil if there is none
func (p *page) Metadata() (map[string]any, error) {
	if len(p.frontmatter) == 0 {
		return nil, nil
	}

	f := DetectFrontMatter(rune(p.frontmatter[0]))
	if f == nil {
		return nil, nil
	}

	meta, err := f.Parse(p.frontmatter)
	if err != nil {
		return nil, err
	}

	switch m := meta.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return m, nil
	default:
		return nil, fmt.Errorf("front matter must be a map, got %T", meta)
	}
}

// ReadFrom reads a template, splitting off front matter
// when the first line is a YAML, TOML or JSON delimiter
func ReadFrom(r io.Reader) (Template, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &page{content: raw}
	f := frontMatterStart(raw)
	if f == nil {
		return p, nil
	}

	end, err := frontMatterEnd(raw, f)
	if err != nil {
		return nil, err
	}

	p.frontmatter = raw[:end]
	p.content = raw[end:]
	return p, nil
}

// The opening delimiter must sit alone on the first line, so
// a template starting with "{{" is never taken for JSON
func frontMatterStart(raw []byte) *FrontmatterType {
	if len(raw) == 0 {
		return nil
	}
	f := DetectFrontMatter(rune(raw[0]))
	if f == nil {
		return nil
	}
	line, _, _ := bytes.Cut(raw, []byte{'\n'})
	if !bytes.Equal(bytes.TrimRight(line, "\r"), f.markstart) {
		return nil
	}
	return f
}

// Offset just past the closing delimiter line
func frontMatterEnd(raw []byte, f *FrontmatterType) (int, error) {
	offset := bytes.IndexByte(raw, '\n') + 1
	for offset > 0 && offset < len(raw) {
		line, next := raw[offset:], len(raw)
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			line, next = line[:i], offset+i+1
		}
		if bytes.Equal(bytes.TrimRight(line, "\r"), f.markend) {
			return next, nil
		}
		offset = next
	}
	return 0, fmt.Errorf("unterminated front matter, expected closing %q", f.markend)
}
