package merge

import (
	"github.com/rykov/convocgen/config"

	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

var testDataset = Dataset{
	{Name: Name{Last: "Doe", First: "Jane"}, Extras: []string{"P", "A"}},
	{Name: Name{Last: "Roe", First: "Rick"}, Extras: []string{"A", ""}},
}

func renderString(t *testing.T, src string, ds Dataset) string {
	t.Helper()
	tmpl, err := ParseTemplate("tpl.html", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := tmpl.Render(&buf, ds); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestTemplateRender(t *testing.T) {
	src := `{{ range . }}<tr><th>{{ .Name.Last }} {{ .Name.First }}</th>{{ range .Extras }}<td>{{ . }}</td>{{ end }}</tr>
{{ end }}`
	expect := "<tr><th>Doe Jane</th><td>P</td><td>A</td></tr>\n" +
		"<tr><th>Roe Rick</th><td>A</td><td></td></tr>\n"

	if out := renderString(t, src, testDataset); out != expect {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", out, expect)
	}
}

func TestTemplateRenderOrder(t *testing.T) {
	var ds Dataset
	var expect strings.Builder
	for _, n := range []string{"m", "c", "x", "a", "q"} {
		ds = append(ds, Record{Name: Name{Last: n}, Extras: []string{}})
		expect.WriteString(n + ",")
	}

	out := renderString(t, `{{ range . }}{{ .Name.Last }},{{ end }}`, ds)
	if out != expect.String() {
		t.Errorf("Iteration should follow dataset order: got %q", out)
	}
}

func TestTemplateEscapesData(t *testing.T) {
	ds := Dataset{{Name: Name{Last: "<script>alert(1)</script>"}, Extras: []string{}}}
	out := renderString(t, `{{ range . }}{{ .Name.Last }}{{ end }}`, ds)
	if strings.Contains(out, "<script>") {
		t.Errorf("Data should be escaped: %s", out)
	}
}

func TestTemplateFuncs(t *testing.T) {
	src := `---
title: Attendance
Period: Autumn
---
<h1>{{ param "title" }} ({{ param "period" }})</h1>{{ param "missing" }}
{{ range . }}{{ .FullName }}|{{ join .Extras "," }}
{{ end }}{{ humanize "date_of_birth" }}`

	expect := "<h1>Attendance (Autumn)</h1>\nDoe Jane|P,A\nRoe Rick|A,\nDate of birth"
	if out := renderString(t, src, testDataset); out != expect {
		t.Errorf("Unexpected output:\n%q\nwant:\n%q", out, expect)
	}
}

func TestTemplateFullname(t *testing.T) {
	ds := Dataset{
		{Name: Name{Last: "Doe", First: "Jane"}, Extras: []string{}},
		{Name: Name{Last: "Roe"}, Extras: []string{}},
	}

	out := renderString(t, `{{ range . }}<p>{{ fullname . }}</p>{{ end }}`, ds)
	if expect := "<p>Doe Jane</p><p>Roe</p>"; out != expect {
		t.Errorf("Expected %q, got %q", expect, out)
	}
}

func TestTemplateMarkdownAndSanitize(t *testing.T) {
	ds := Dataset{{
		Name:   Name{Last: "Doe"},
		Extras: []string{"**late** <script>alert(1)</script>", `<b>ok</b><a href="javascript:alert(1)">x</a>`},
	}}
	src := `{{ range . }}{{ markdown (index .Extras 0) }}|{{ sanitize (index .Extras 1) }}{{ end }}`
	out := renderString(t, src, ds)

	if !strings.Contains(out, "<strong>late</strong>") {
		t.Errorf("Expected rendered markdown: %s", out)
	}
	if !strings.Contains(out, "<b>ok</b>") {
		t.Errorf("Expected safe HTML kept: %s", out)
	}
	if strings.Contains(out, "<script") || strings.Contains(out, "javascript:") {
		t.Errorf("Expected unsafe HTML removed: %s", out)
	}
}

func TestParseTemplateErrors(t *testing.T) {
	testCases := map[string]string{
		"syntax":       `{{ range . }}`,
		"unknown_func": `{{ shout . }}`,
		"frontmatter":  "---\ntitle: \"x\n---\nbody",
		"unterminated": "---\ntitle: x\nbody",
	}
	for name, src := range testCases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTemplate("tpl.html", []byte(src)); !errors.Is(err, ErrTemplateInvalid) {
				t.Errorf("Expected ErrTemplateInvalid, got %v", err)
			}
		})
	}
}

func TestLoadTemplate(t *testing.T) {
	cfg, _ := newTestConfig(t, map[string]string{
		"tpl.html": "---\ntitle: Roll call\n---\n<title>{{ param \"title\" }}</title>",
	})

	tmpl, err := LoadTemplate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.Path != "tpl.html" || tmpl.Params["title"] != "Roll call" {
		t.Errorf("Unexpected template %+v", tmpl)
	}
}

func TestLoadTemplateErrors(t *testing.T) {
	testCases := []struct {
		name   string
		files  map[string]string
		setup  func(*config.AConfig)
		expect error
	}{
		{"missing", nil, nil, ErrTemplateNotFound},
		{"empty", map[string]string{"tpl.html": ""}, nil, ErrTemplateUnreadable},
		{"invalid", map[string]string{"tpl.html": "{{ end }}"}, nil, ErrTemplateInvalid},
		{"directory", map[string]string{"layouts/tpl.html": "ok"}, func(cfg *config.AConfig) {
			cfg.Template = "layouts"
		}, ErrTemplateUnreadable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, _ := newTestConfig(t, tc.files)
			if tc.setup != nil {
				tc.setup(cfg)
			}
			if _, err := LoadTemplate(cfg); !errors.Is(err, tc.expect) {
				t.Errorf("Expected %v, got %v", tc.expect, err)
			}
		})
	}
}

func TestRenderFunc(t *testing.T) {
	var r Renderer = RenderFunc(func(w io.Writer, ds Dataset) error {
		_, err := io.WriteString(w, strings.Repeat("*", len(ds)))
		return err
	})

	var buf bytes.Buffer
	if err := r.Render(&buf, testDataset); err != nil || buf.String() != "**" {
		t.Errorf("RenderFunc output %q, %v", buf.String(), err)
	}
}
