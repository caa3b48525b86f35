package server

import (
	"github.com/rykov/convocgen/config"
	"github.com/rykov/convocgen/merge"
	"github.com/urfave/negroni/v3"

	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// PreviewHandler runs a complete merge for every request, so
// edits to the template or data show up on browser refresh
func PreviewHandler(cfg *config.AConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			s := http.StatusMethodNotAllowed
			http.Error(w, http.StatusText(s), s)
			return
		}

		doc, err := renderPreview(cfg.WithContext(r.Context()))
		if err != nil {
			cfg.Log.WithError(err).Warn("Preview failed")
			http.Error(w, err.Error(), errorStatus(err))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
		if r.Method == http.MethodGet {
			w.Write(doc)
		}
	})
}

func renderPreview(cfg *config.AConfig) ([]byte, error) {
	tmpl, err := merge.LoadTemplate(cfg)
	if err != nil {
		return nil, err
	}

	ds, err := merge.LoadDataset(cfg)
	if err != nil {
		return nil, err
	}

	return merge.Merge(cfg, tmpl, ds)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, merge.ErrTemplateNotFound), errors.Is(err, merge.ErrDataNotFound):
		return http.StatusNotFound
	case errors.Is(err, merge.ErrDataEmpty), errors.Is(err, merge.ErrShortRow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WithMiddleware wraps the handler with logging, recovery, etc
func WithMiddleware(h http.Handler, cfg *config.AConfig) http.Handler {
	logger := negroni.NewLogger()
	if cfg != nil && cfg.Log != nil {
		logger.ALogger = cfg.Log
	}
	n := negroni.New(negroni.NewRecovery(), logger)

	// Add basic authentication
	if cfg != nil && cfg.ServerAuth != "" {
		expU, expP, _ := strings.Cut(cfg.ServerAuth, ":")
		n.UseFunc(func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
			if u, p, ok := r.BasicAuth(); ok {
				okU := subtle.ConstantTimeCompare([]byte(u), []byte(expU)) == 1
				okP := subtle.ConstantTimeCompare([]byte(p), []byte(expP)) == 1
				if okU && okP {
					next(rw, r)
					return
				}
			}
			rw.Header().Set("WWW-Authenticate", `Basic realm="convocgen"`)
			s := http.StatusUnauthorized
			http.Error(rw, http.StatusText(s), s)
		})
	}

	n.UseHandler(h)
	return n
}
