package cmd

import (
	"github.com/rykov/convocgen/config"
	"github.com/rykov/convocgen/merge"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"errors"
	"fmt"
	"strings"
)

const rootLong = `Generates a big chunky HTML document following a template and a CSV data file.

Will process template file, using each data line from data file, in order to
generate a merged HTML file.

About template file:
    Template file is a Go html/template, optionally starting with YAML/TOML
    front matter (values available with {{ param "key" }}).
    The template's dot is the whole list of records, in CSV order. Each
    record has .Name.Last, .Name.First, .FullName and .Extras (every column
    after the name columns). Templates can run anything html/template can,
    so never use unverified templates.

About data file:
    Data file has to be a valid CSV file.
    At the moment, only semicolon (;) separated fields optionally enclosed
    by quotes (") are supported.
    By default, the first line is used as header, and will be checked to map
    the names columns, searching for "Prénom" and "Nom de famille".
    The search is case-insensitive and can use accents or not.
    If your CSV file has no header line, you can use --nohead instead.
    You can also use --ignore to ignore several lines at the top of the file.
    This argument is only used with --nohead. Blank lines are skipped by the
    CSV reader and are not counted.

About output file:
    By default, output is the standard stream. You can then pipe the output
    to another file, or use --output to create a HTML output file.
    If the output is the standard stream and verbose mode is ON, you'll get
    mixed output streams, so be sure to use --output if you enable verbose mode.
    As your generated file will be opened by an HTML browser, be sure to
    include resources into your HTML (for example, using base64 images or
    --inline-css) or to output the file into a prepared folder with external
    resources in it.`

func New(build config.BuildInfo) *cobra.Command {
	return newRootCmd(build, afero.NewOsFs())
}

func newRootCmd(build config.BuildInfo, fs afero.Fs) *cobra.Command {
	config.Build = build

	rootCmd := &cobra.Command{
		Use:           "convocgen",
		Short:         "Merge CSV data into an HTML template",
		Long:          rootLong,
		Example:       "convocgen -t tpl.html -d data.csv -o attendance.html",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, fs)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				cfg.Log.Debugf("Additional args [%s] ignored", strings.Join(args, ", "))
			}

			return merge.Run(cfg)
		},
	}

	// Shared with subcommands
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&config.ViperConfigFile, "config", "", "config file (default: ./convocgen.toml)")
	pf.BoolP("verbose", "v", false, "Enable verbose output")
	pf.StringP("template", "t", "", "Template file (default "+config.DefaultTemplate+")")
	pf.StringP("data", "d", "", "Data file (default "+config.DefaultData+")")
	pf.Bool("nohead", false, "Disable auto-header reading; file starts at the very first line")
	pf.Int("ignore", 0, "Ignore the first <n> non-blank lines; used only if --nohead is used")
	pf.String("short-rows", "", "Rows missing a name column: pad, skip or error (default pad)")

	// Merge only
	f := rootCmd.Flags()
	f.StringP("output", "o", "", "Output file (by default, will output in stdout)")
	f.Bool("inline-css", false, "Inline template stylesheets into the output")

	rootCmd.AddCommand(
		versionCmd(),
		initCmd(fs),
		previewCmd(fs),
	)

	return rootCmd
}

// loadConfig reads configuration for cmd and
// routes output and trace to the command's streams
func loadConfig(cmd *cobra.Command, fs afero.Fs) (*config.AConfig, error) {
	cfg, err := config.LoadConfigFs(cmd.Context(), fs, cmd.Flags())
	if errors.Is(err, config.ErrNegativeIgnore) {
		return nil, newUserError("%s (--ignore takes a count of lines)", err)
	} else if err != nil {
		return nil, err
	}

	cfg.SetTraceOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if _, ok := cfg.Output.(config.StdOutput); ok {
		cfg.Output = config.StdOutput{W: cmd.OutOrStdout()}
	}
	return cfg, nil
}

// Error caused by invalid input, not a failure of the program
type userError struct {
	s string
}

func (e userError) Error() string {
	return e.s
}

func newUserError(a ...interface{}) userError {
	if len(a) > 1 {
		return userError{s: fmt.Sprintf(a[0].(string), a[1:]...)}
	}
	return userError{s: fmt.Sprint(a...)}
}
