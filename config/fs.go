package config

import (
	"github.com/spf13/afero"

	"path/filepath"
)

type Fs struct {
	afero.Fs
	Config *AConfig
}

// TemplateDir is the directory assets referenced
// by the template (stylesheets) are resolved against
func (f *Fs) TemplateDir() string {
	return filepath.Dir(f.Config.Template)
}

// AssetPath resolves a template-relative asset path
func (f *Fs) AssetPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.TemplateDir(), name)
}

func (f *Fs) IsFile(path string) bool {
	s, err := f.Stat(path)
	return err == nil && !s.IsDir()
}

func (f *Fs) IsDir(dir string) bool {
	s, err := f.Stat(dir)
	return err == nil && s.IsDir()
}
