package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gonum.org/v1/plot/vg"

	"github.com/zalepa/benito/chart"
	"github.com/zalepa/benito/logger"
	"github.com/zalepa/benito/parser"
)

type recordsResponse struct {
	Order      chart.Order          `json:"order"`
	Records    []parser.SpendRecord `json:"records"`
	Warnings   []parser.Diagnostic  `json:"warnings"`
	Dropped    int                  `json:"dropped"`
	Projection chart.Projection     `json:"projection"`
}

// newRecordsResponse pairs view with the load diagnostics of res.
func newRecordsResponse(view chart.View, res parser.Result) recordsResponse {
	resp := recordsResponse{
		Order:      view.Order,
		Records:    view.Displayed,
		Warnings:   res.Warnings,
		Dropped:    res.Dropped,
		Projection: chart.Project(view.Displayed),
	}
	if resp.Records == nil {
		resp.Records = []parser.SpendRecord{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []parser.Diagnostic{}
	}
	return resp
}

// Serve implements the "serve" subcommand: an HTTP server for the chart page
// and its data.
func Serve(args []string) {
	cfg, log := setup()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	format := fs.String("format", cfg.Format, "input format: csv, lines, xlsx, pdf (default: from extension)")
	port := fs.String("port", cfg.Port, "HTTP server port")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: benito serve [report] [--port 8080]\n\nServe the chart page and a JSON API.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(args))

	inputPath := cfg.DataPath
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}

	res := mustLoad(inputPath, *format, log)
	if len(res.Records) == 0 {
		fmt.Fprintf(os.Stderr, "warning: no records in %s, serving empty charts\n", inputPath)
	}
	width, height := cfg.Size()
	s := newServer(res, width, height, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	fmt.Printf("serving on http://localhost%s\n", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// server holds the records loaded at startup. Handlers derive the displayed
// view from the request path and never mutate it.
type server struct {
	view   chart.View
	loaded parser.Result
	width  vg.Length
	height vg.Length
	log    zerolog.Logger
}

func newServer(res parser.Result, width, height vg.Length, log zerolog.Logger) *server {
	return &server{
		view:   chart.NewView(res.Records),
		loaded: res,
		width:  width,
		height: height,
		log:    log,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/records/{order}", s.handleRecords)
	r.Get("/charts/{order}/{file}", s.handleChart)
	r.Get("/", s.handlePage)
	r.Get("/{order}", s.handlePage)
	return r
}

// requestLogger logs each request and stores the logger in its context.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			reqLog := log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), reqLog)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			reqLog.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}

// viewFor resolves the {order} path parameter. ok is false for unknown
// orders, which are answered with 404.
func (s *server) viewFor(r *http.Request) (chart.View, bool) {
	o, err := chart.ParseOrder(chi.URLParam(r, "order"))
	if err != nil {
		return chart.View{}, false
	}
	return s.view.Sorted(o), true
}

func pageHref(o chart.Order) string {
	if o == chart.OrderOriginal {
		return "/"
	}
	return "/" + string(o)
}

func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	view, ok := s.viewFor(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	if err := renderPage(&buf, view, s.loaded.Dropped, pageHref, s.width, s.height); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	view, ok := s.viewFor(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	file := chi.URLParam(r, "file")
	ext := path.Ext(file)
	k, err := chart.ParseKind(strings.TrimSuffix(file, ext))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var contentType string
	switch ext {
	case ".svg":
		contentType = "image/svg+xml"
	case ".png":
		contentType = "image/png"
	default:
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := renderChart(&buf, file, k, chart.Project(view.Displayed), s.width, s.height); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	buf.WriteTo(w)
}

func (s *server) handleRecords(w http.ResponseWriter, r *http.Request) {
	view, ok := s.viewFor(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newRecordsResponse(view, s.loaded))
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"records":  len(s.view.Original),
		"warnings": len(s.loaded.Warnings),
		"dropped":  s.loaded.Dropped,
	})
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Error().Err(err).Str("path", r.URL.Path).Msg("render failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
