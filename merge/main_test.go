package merge

import (
	"github.com/rykov/convocgen/config"
	"github.com/spf13/afero"

	"bytes"
	"context"
	"testing"
)

// newTestConfig returns a config on an in-memory FS, writing
// the merged document into the returned buffer
func newTestConfig(t *testing.T, files map[string]string) (*config.AConfig, *bytes.Buffer) {
	t.Helper()
	memFs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(memFs, path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	cfg := config.NewConfig(memFs)
	cfg.Context = context.Background()
	cfg.Template = config.DefaultTemplate
	cfg.Data = config.DefaultData
	cfg.ShortRows = "pad"
	cfg.CSV.Separator = ";"
	cfg.Output = config.StdOutput{W: &out}
	return cfg, &out
}
