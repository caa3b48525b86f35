package cmd

import (
	"github.com/bep/inflect"
	"github.com/rykov/convocgen/config"
	"github.com/rykov/convocgen/parser"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

const (
	sampleTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ param "title" }}</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
{{- range . }}
  <section class="convocation">
    <h1>{{ param "title" }}</h1>
    <p>{{ .Name.First }} {{ .Name.Last }}</p>
    {{- if .Extras }}
    <p>{{ join .Extras ", " }}</p>
    {{- end }}
  </section>
{{- end }}
</body>
</html>
`
	sampleData = `Nom de famille;Prénom;Date
Dupont;Jean;12/05
Martin;Élise;13/05
`
	sampleStyle = `.convocation { page-break-after: always; }
`
	sampleConfig = `template = "{{ .Template }}"
data = "{{ .Data }}"
output = "convocations.html"
inlineCSS = true

[csv]
separator = ";"
`
)

func initCmd(fs afero.Fs) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "init [path]",
		Short:   "Create a sample template and data file",
		Example: "convocgen init attendance-sheets",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			title := inflect.Humanize(strings.ReplaceAll(filepath.Base(abs), "-", "_"))

			// Template with front matter
			var fm bytes.Buffer
			meta := map[string]any{"title": title}
			lead := parser.FormatToLeadRune(format)
			if err := parser.InterfaceToFrontMatter(meta, lead, &fm); err != nil {
				return err
			}

			files := []struct {
				name, content string
				data          any
			}{
				{config.DefaultTemplate, fm.String() + sampleTemplate, nil},
				{config.DefaultData, sampleData, nil},
				{"style.css", sampleStyle, nil},
				{"convocgen.toml", sampleConfig, map[string]string{
					"Template": config.DefaultTemplate,
					"Data":     config.DefaultData,
				}},
			}

			if err := fs.MkdirAll(dir, 0755); err != nil {
				return err
			}

			for _, f := range files {
				path := filepath.Join(dir, f.name)
				if err := writeTemplate(cmd, fs, path, f.content, f.data); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Template front matter format: yaml, toml or json")
	return cmd
}

// Files without data are written verbatim
func writeTemplate(cmd *cobra.Command, fs afero.Fs, path, content string, data any) error {
	if ex, err := afero.Exists(fs, path); ex {
		return newUserError("%s already exists", path)
	} else if err != nil {
		return err
	}

	out := bytes.NewBufferString(content)
	if data != nil {
		t, err := template.New("template").Parse(content)
		if err != nil {
			return err
		}
		out.Reset()
		if err := t.Execute(out, data); err != nil {
			return err
		}
	}

	err := afero.WriteFile(fs, path, out.Bytes(), 0644)
	if err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), path, "created")
	}

	return err
}
