package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/receiptsplit/internal/middleware"
	"github.com/mmynk/receiptsplit/internal/storage/images"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// imageOpener serves stored receipt images.
type imageOpener interface {
	Open(name string) (*os.File, string, error)
}

type routerConfig struct {
	Bills  api.BillServiceHandler
	Splits api.SplitServiceHandler
	Scans  api.ScanServiceHandler
	Images imageOpener

	StaticPath     string
	AllowedOrigins []string

	Metrics  *middleware.RPCMetrics
	Registry *prometheus.Registry
	// ScanLimit throttles ScanService; nil disables it.
	ScanLimit func(http.Handler) http.Handler
}

func newRouter(rc routerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rc.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms",
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge: 300,
	}))

	interceptors := []connect.Interceptor{middleware.LoggingInterceptor()}
	if rc.Metrics != nil {
		interceptors = append(interceptors, rc.Metrics.Interceptor())
	}
	opts := connect.WithInterceptors(interceptors...)

	// Register Connect services
	billPath, billHandler := api.NewBillServiceHandler(rc.Bills, opts)
	r.Handle(billPath+"*", billHandler)

	splitPath, splitHandler := api.NewSplitServiceHandler(rc.Splits, opts)
	r.Handle(splitPath+"*", splitHandler)

	scanPath, scanHandler := api.NewScanServiceHandler(rc.Scans, opts)
	if rc.ScanLimit != nil {
		scanHandler = rc.ScanLimit(scanHandler)
	}
	r.Handle(scanPath+"*", scanHandler)

	if rc.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rc.Registry, promhttp.HandlerOpts{}))
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/images/{name}", serveImage(rc.Images))

	// Handle all non-API routes with static file server
	r.NotFound(serveStatic(rc.StaticPath))
	return r
}

func serveImage(store imageOpener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		f, contentType, err := store.Open(name)
		if err != nil {
			if errors.Is(err, images.ErrNotFound) || errors.Is(err, images.ErrInvalidName) {
				http.NotFound(w, r)
				return
			}
			slog.Error("Failed to open image", "image", name, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
		http.ServeContent(w, r, name, info.ModTime(), f)
	}
}

func serveStatic(staticPath string) http.HandlerFunc {
	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		staticDir = staticPath
	}
	slog.Info("Serving static files", "path", staticDir)

	return func(w http.ResponseWriter, r *http.Request) {
		// Unknown RPC procedures must not fall back to the UI.
		if strings.HasPrefix(r.URL.Path, "/"+api.PackagePrefix) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))

		// Check if file exists
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			// Unknown paths get the index page
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}
}
