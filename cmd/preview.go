package cmd

import (
	"github.com/rykov/convocgen/config"
	"github.com/rykov/convocgen/server"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

const (
	cliPreviewMsg = "\nPlease open the browser to the following URL:\n%s\n\n"

	// Time allowed for in-flight renders on shutdown
	shutdownTimeout = 5 * time.Second
)

// Disables launching the browser in tests
var previewTestMode = false

func previewCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview merged document in browser",
		Long: `Starts a local server that merges the template and data file
on every request, so the page can be refreshed while editing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, fs)
			if err != nil {
				return err
			}

			ctx, cancel := withSignalTrap(cmd.Context())
			defer cancel()

			return startPreviewServer(ctx, cfg, func() {
				openPreview(cmd, cfg)
			})
		},
	}

	cmd.Flags().Uint("port", 8080, "Port for the preview server")
	cmd.Flags().Bool("inline-css", false, "Inline template stylesheets into the preview")
	return cmd
}

// Server runs until ctx is done, calling ready once listening
func startPreviewServer(ctx context.Context, cfg *config.AConfig, ready func()) error {
	mux := http.NewServeMux()
	mux.Handle("/", server.PreviewHandler(cfg))

	s := &http.Server{
		Handler:     server.WithMiddleware(mux, cfg),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	s.Addr = fmt.Sprintf(":%d", cfg.ServerPort)

	// Open port for listening
	l, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}

	cfg.Log.Infof("Preview server listening at %s ...", s.Addr)
	if ready != nil {
		ready()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Serve(l)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	cfg.Log.Info("Shutting down preview server")
	err = s.Shutdown(shutdownCtx)
	if serr := <-serveErr; !errors.Is(serr, http.ErrServerClosed) {
		err = errors.Join(err, serr)
	}
	return err
}

func withSignalTrap(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func openPreview(cmd *cobra.Command, cfg *config.AConfig) {
	url := fmt.Sprintf("http://localhost:%d/", cfg.ServerPort)

	// Open preview URL on various platform
	var err error
	switch {
	case previewTestMode:
		err = fmt.Errorf("Test mode")
	case runtime.GOOS == "darwin":
		err = exec.Command("open", url).Start()
	case runtime.GOOS == "linux":
		err = exec.Command("xdg-open", url).Start()
	case runtime.GOOS == "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		err = fmt.Errorf("Unsupported platform")
	}

	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), cliPreviewMsg, url)
	}
}
