package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spancal/pkg/buildinfo"
	spanerrors "github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/layout"
	"github.com/matzehuels/spancal/pkg/observability"
	"github.com/matzehuels/spancal/pkg/store"
)

const shutdownTimeout = 5 * time.Second

// serveCommand exposes stored runs over a read-only HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored runs over HTTP",
		Long: `Serve stored runs over a read-only HTTP API.

Endpoints:
  GET /healthz
  GET /api/runs
  GET /api/runs/{id}
  GET /api/runs/{id}/layout
  GET /api/runs/{id}/export/{format}    generic, spanright or url
  GET /api/runs/{id}/tree.svg
  GET /api/runs/{id}/layout.svg

{id} may be "latest".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			s, err := c.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			printInfo("Serving %s runs on %s", cfg.Store.Backend, StyleLink.Render(serverURL(cfg.Server.Addr)))
			return serve(ctx, cfg.Server.Addr, newAPIRouter(s, c.Logger), c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else "+defaultServerAddr+")")
	return cmd
}

// serverURL turns a listen address into a browsable base URL.
func serverURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

// serve runs handler on addr until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("serving runs", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return spanerrors.Wrap(spanerrors.ErrCodeInternal, err, "shut down server")
		}
		logger.Info("server stopped")
		return nil
	case err := <-errCh:
		if err != nil {
			return spanerrors.Wrap(spanerrors.ErrCodeInternal, err, "serve %s", addr)
		}
		return nil
	}
}

// =============================================================================
// Router
// =============================================================================

type apiServer struct {
	store  store.Store
	logger *log.Logger
}

// apiError is the body of every non-2xx JSON response.
type apiError struct {
	Error apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Code    string `json:"code"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func newAPIRouter(s store.Store, logger *log.Logger) chi.Router {
	api := &apiServer{store: s, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(api.observe)

	r.Get("/healthz", api.health)
	r.Route("/api/runs", func(r chi.Router) {
		r.Get("/", api.listRuns)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", api.getRun)
			r.Get("/layout", api.getLayout)
			r.Get("/layout.svg", api.getLayoutSVG)
			r.Get("/export/{format}", api.getExport)
			r.Get("/tree.svg", api.getTree)
		})
	})
	return r
}

// observe reports every request to the HTTP hooks and the debug log.
func (a *apiServer) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		a.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
	})
}

func (a *apiServer) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (a *apiServer) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := a.store.List(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (a *apiServer) getRun(w http.ResponseWriter, r *http.Request) {
	if run, ok := a.run(w, r); ok {
		writeJSON(w, http.StatusOK, run)
	}
}

func (a *apiServer) getLayout(w http.ResponseWriter, r *http.Request) {
	run, ok := a.run(w, r)
	if !ok {
		return
	}
	ps, err := layout.Reconstruct(run.Monitors, run.Results)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (a *apiServer) getLayoutSVG(w http.ResponseWriter, r *http.Request) {
	run, ok := a.run(w, r)
	if !ok {
		return
	}
	a.writeDocument(w, func() (document, error) { return layoutDocument(run, true) })
}

func (a *apiServer) getExport(w http.ResponseWriter, r *http.Request) {
	run, ok := a.run(w, r)
	if !ok {
		return
	}
	format := chi.URLParam(r, "format")
	a.writeDocument(w, func() (document, error) { return exportDocument(run, format) })
}

func (a *apiServer) getTree(w http.ResponseWriter, r *http.Request) {
	run, ok := a.run(w, r)
	if !ok {
		return
	}
	detailed := r.URL.Query().Get("detailed") == "true"
	a.writeDocument(w, func() (document, error) { return treeDocument(r.Context(), run, detailed, false) })
}

// run loads the run named by the {id} URL parameter, writing the error
// response itself when that fails.
func (a *apiServer) run(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	run, err := loadRun(r.Context(), a.store, []string{chi.URLParam(r, "id")})
	if err != nil {
		a.writeError(w, err)
		return nil, false
	}
	return run, true
}

func (a *apiServer) writeDocument(w http.ResponseWriter, build func() (document, error)) {
	doc, err := build()
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", doc.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", contentJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (a *apiServer) writeError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", "err", err)
	}
	code := spanerrors.GetCode(err)
	if code == "" {
		code = spanerrors.ErrCodeInternal
	}
	writeJSON(w, status, apiError{Error: apiErrorBody{
		Code:    string(code),
		Stage:   spanerrors.Stage(err),
		Message: spanerrors.UserMessage(err),
	}})
}

// httpStatus maps an error code to a response status.
func httpStatus(err error) int {
	switch spanerrors.GetCode(err) {
	case spanerrors.ErrCodeRunNotFound, spanerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case spanerrors.ErrCodeInvalidInput, spanerrors.ErrCodeInvalidMonitor,
		spanerrors.ErrCodeInvalidFormat, spanerrors.ErrCodeInvalidPath, spanerrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case spanerrors.ErrCodeNoPPIAnchor, spanerrors.ErrCodeSerialization:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
