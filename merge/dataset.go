package merge

import (
	"github.com/ghodss/yaml"
	"github.com/rykov/convocgen/config"
	"github.com/sirupsen/logrus"

	"errors"
	"fmt"
	"io"
	"io/fs"
)

// Dataset is every record of a run, in CSV order
type Dataset []Record

type LoadOptions struct {
	// First row names the columns
	Header bool

	// Rows discarded before data when Header is off
	Ignore int

	ShortRows ShortRowPolicy
	CSV       config.CSVConfig
}

func loadOptions(cfg *config.AConfig) (LoadOptions, error) {
	policy, err := ParseShortRowPolicy(cfg.ShortRows)
	if err != nil {
		return LoadOptions{}, err
	}
	return LoadOptions{
		Header:    !cfg.NoHead,
		Ignore:    cfg.Ignore,
		ShortRows: policy,
		CSV:       cfg.CSV,
	}, nil
}

// LoadDataset reads the configured CSV data file
func LoadDataset(cfg *config.AConfig) (Dataset, error) {
	opts, err := loadOptions(cfg)
	if err != nil {
		return nil, err
	}

	path := cfg.Data
	log := cfg.Log.WithField("path", path)
	log.Debug("Loading CSV data...")

	if cfg.AppFs.IsDir(path) {
		return nil, fmt.Errorf("%w: %s is a directory", ErrDataUnreadable, path)
	} else if _, err := cfg.AppFs.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDataNotFound, path)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnreadable, path, err)
	}

	f, err := cfg.AppFs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnreadable, path, err)
	}
	defer f.Close()

	log.Debug("Reading CSV data file...")
	ds, err := ReadDataset(f, opts, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if len(ds) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDataEmpty, path)
	}

	if cfg.Log.IsLevelEnabled(logrus.DebugLevel) {
		if dump, err := yaml.Marshal(ds); err == nil {
			log.Debugf("Formatted CSV data:\n%s", dump)
		}
	}

	return ds, nil
}

// ReadDataset turns CSV rows into records. With Header set the
// first row resolves the name columns; a missing first row keeps
// DefaultColumns. Otherwise Ignore rows are dropped unread.
func ReadDataset(r io.Reader, opts LoadOptions, log logrus.FieldLogger) (Dataset, error) {
	rows, err := NewRowReader(r, opts.CSV)
	if err != nil {
		return nil, err
	}

	cols := DefaultColumns
	if opts.Header {
		log.Debug("Reading first line for headers...")
		switch header, err := rows.Read(); {
		case err == nil:
			cols = ResolveColumns(header, log)
		case !errors.Is(err, io.EOF):
			return nil, fmt.Errorf("%w: %w", ErrDataUnreadable, err)
		}
		if opts.Ignore > 0 {
			log.Debugf("Ignore count %d only applies without header", opts.Ignore)
		}
	} else if opts.Ignore > 0 {
		log.Debugf("Ignoring first %d lines...", opts.Ignore)
		for i := 0; i < opts.Ignore; i++ {
			if _, err := rows.Read(); errors.Is(err, io.EOF) {
				break
			} else if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrDataUnreadable, err)
			}
		}
	}

	ds := Dataset{}
	for {
		row, err := rows.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDataUnreadable, err)
		}

		rec, ok, err := BuildRecord(row, cols, opts.ShortRows)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rows.Line(), err)
		} else if !ok {
			log.WithField("line", rows.Line()).Warn("Skipping short row")
			continue
		}

		log.WithField("line", rows.Line()).Debug("Reading line...")
		ds = append(ds, rec)
	}

	return ds, nil
}
