package merge

import (
	"github.com/rykov/convocgen/config"

	"bytes"
	"errors"
	"fmt"
)

// Run loads the template then the data, merges them and
// writes the document. Nothing is written unless every
// previous step succeeded.
func Run(cfg *config.AConfig) error {
	cfg.Log.Debug("Loading...")
	tmpl, err := LoadTemplate(cfg)
	if err != nil {
		return err
	}

	ds, err := LoadDataset(cfg)
	if err != nil {
		return err
	}

	doc, err := Merge(cfg, tmpl, ds)
	if err != nil {
		return err
	}

	return WriteOutput(cfg, doc)
}

// Merge renders the dataset into a complete document
func Merge(cfg *config.AConfig, r Renderer, ds Dataset) ([]byte, error) {
	cfg.Log.Debug("Merge document...")
	var buf bytes.Buffer
	if err := r.Render(&buf, ds); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	if !cfg.InlineCSS {
		return buf.Bytes(), nil
	}

	cfg.Log.Debug("Inlining stylesheets...")
	out, err := inlineStylesheets(cfg.AppFs, buf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to inline stylesheets: %w", err)
	}
	return []byte(out), nil
}

// WriteOutput writes the whole document then closes the target
func WriteOutput(cfg *config.AConfig, doc []byte) (err error) {
	log := cfg.Log.WithField("output", cfg.Output.String())
	log.Debug("Opening output...")

	w, err := cfg.Output.Open(cfg.AppFs)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOutputOpen, cfg.Output.String(), err)
	}
	defer func() {
		err = errors.Join(err, w.Close())
		if err == nil {
			log.Debug("Output done and stream closed")
		}
	}()

	log.Debug("Writing to output...")
	_, err = w.Write(doc)
	return err
}
