package config

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"unicode/utf8"
)

// Viper config file (populated from cmd)
var ViperConfigFile string = ""

// BuildInfo (populated from cmd)
var Build BuildInfo

// Returned when the ignore count is below zero
var ErrNegativeIgnore = errors.New("invalid ignore count")

const (
	DefaultTemplate = "tpl.html"
	DefaultData     = "data.csv"
	DefaultOutput   = "-"
)

type AConfig struct {
	// Version/build
	Build BuildInfo

	// From convocgen.toml, ENV and flags
	ConfigFile

	// Resolved once from ConfigFile.Output
	Output OutputTarget

	// Command context
	Context context.Context

	// Afero VFS
	AppFs *Fs

	// Progress trace (stdout in verbose mode)
	Log *logrus.Logger
}

// Creates a new config with provided context override
func (orig AConfig) WithContext(ctx context.Context) *AConfig {
	var newCfg = orig
	newCfg.Context = ctx
	return &newCfg
}

type ConfigFile struct {
	// Inputs and output
	Template string
	Data     string
	Output   string

	// Header detection
	NoHead bool
	Ignore int

	// Row shaping: pad, skip or error
	ShortRows string

	// Post-processing
	InlineCSS bool

	// Tracing
	Verbose bool

	CSV CSVConfig

	// Preview server
	ServerAuth string
	ServerPort uint
}

type CSVConfig struct {
	Separator string
}

// Comma returns the single-rune field separator
func (c CSVConfig) Comma() (rune, error) {
	switch n := utf8.RuneCountInString(c.Separator); {
	case n == 0:
		return ';', nil
	case n > 1:
		return 0, errors.New("multi-character CSV separator not supported")
	}
	r, _ := utf8.DecodeRuneInString(c.Separator)
	return r, nil
}

// Initial blank config
type BuildInfo struct {
	Version   string
	BuildDate string
}

func (i BuildInfo) String() string {
	return fmt.Sprintf("v%s %s/%s (%s)", i.Version, runtime.GOOS, runtime.GOARCH, i.BuildDate)
}

// Standard configuration for specified afero FS. Flags
// may be nil, in which case only file/ENV/defaults apply.
func LoadConfigFs(ctx context.Context, fs afero.Fs, flags *pflag.FlagSet) (*AConfig, error) {
	cfg := NewConfig(fs)
	cfg.Context = ctx

	viperConfig := newViperConfig(cfg.AppFs)
	if err := bindFlags(viperConfig, flags); err != nil {
		return nil, err
	}

	if err := viperConfig.ReadInConfig(); err != nil {
		// Only the implicit ./convocgen.* lookup may be absent
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || ViperConfigFile != "" {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	if err := viperConfig.Unmarshal(&cfg.ConfigFile); err != nil {
		return nil, err
	}

	return cfg, cfg.finalize()
}

// NewConfig returns a blank configuration backed by fs
func NewConfig(fs afero.Fs) *AConfig {
	cfg := &AConfig{
		Build:   Build,
		Context: context.Background(),
		AppFs:   &Fs{Fs: fs},
		Output:  StdOutput{},
		Log:     newLogger(false),
	}
	cfg.AppFs.Config = cfg
	return cfg
}

// Validate settings and resolve derived values
func (cfg *AConfig) finalize() error {
	if cfg.Ignore < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIgnore, cfg.Ignore)
	}
	if _, err := cfg.CSV.Comma(); err != nil {
		return err
	}
	cfg.Output = ResolveOutput(cfg.ConfigFile.Output)
	cfg.Log = newLogger(cfg.Verbose)
	return nil
}

// Verbose traces go to stdout, same as the merged document
// when no output file is given, so users are told to pass -o.
// Otherwise logging follows LOG_LEVEL, on stderr.
func newLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		l.SetOutput(os.Stdout)
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetOutput(os.Stderr)
		l.SetLevel(logrus.GetLevel())
	}
	return l
}

// SetTraceOutput redirects logging: stdout receives
// the verbose trace, stderr everything else
func (cfg *AConfig) SetTraceOutput(stdout, stderr io.Writer) {
	if cfg.Verbose {
		cfg.Log.SetOutput(stdout)
	} else {
		cfg.Log.SetOutput(stderr)
	}
}

// Initialize configuration with Viper
func newViperConfig(fs afero.Fs) *viper.Viper {
	v := viper.New()

	// Initialize with real or virtual FS
	if fs != nil {
		v.SetFs(fs)
	}

	// From --config
	if ViperConfigFile != "" {
		v.SetConfigFile(ViperConfigFile)
	}

	// Tie configuration to ENV
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("convocgen")
	v.AutomaticEnv()

	// Defaults (Files)
	v.SetDefault("template", DefaultTemplate)
	v.SetDefault("data", DefaultData)
	v.SetDefault("output", DefaultOutput)

	// Defaults (CSV)
	v.SetDefault("csv.separator", ";")
	v.SetDefault("noHead", false)
	v.SetDefault("ignore", 0)
	v.SetDefault("shortRows", "pad")

	// Defaults (General)
	v.SetDefault("inlineCSS", false)
	v.SetDefault("verbose", false)

	// Preview server
	v.BindEnv("serverPort", "PORT")
	v.SetDefault("serverPort", 8080)
	v.SetDefault("serverAuth", "")

	// Prepare for project's convocgen.*
	v.SetConfigName("convocgen")
	v.AddConfigPath(".")

	return v
}

// Command-line flags mapped to their configuration keys
var flagKeys = map[string]string{
	"template":   "template",
	"data":       "data",
	"output":     "output",
	"nohead":     "noHead",
	"ignore":     "ignore",
	"short-rows": "shortRows",
	"inline-css": "inlineCSS",
	"verbose":    "verbose",
	"port":       "serverPort",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}
