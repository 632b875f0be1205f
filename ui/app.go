package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ttestcalc/app"
	"ttestcalc/internal"
	"ttestcalc/internal/report"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App is the form front end
type App struct {
	router    *chi.Mux
	service   *app.TTestService
	logger    *internal.Logger
	templates *template.Template
}

// Config holds UI application configuration
type Config struct {
	Service *app.TTestService
	Logger  *internal.Logger
	// API, when set, is mounted at /api/*
	API http.Handler
	// RequestLogging enables chi's request logger
	RequestLogging bool
}

// NewApp creates a new UI application
func NewApp(config Config) (*App, error) {
	if config.Service == nil {
		return nil, fmt.Errorf("ui: service is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}

	funcMap := template.FuncMap{
		"real": report.Real,
		"markdown": func(md string) template.HTML {
			return report.HTML(md)
		},
		"dict": func(pairs ...interface{}) (map[string]interface{}, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]interface{}, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				m[key] = pairs[i+1]
			}
			return m, nil
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   config.Service,
		logger:    logger.With("ui"),
		templates: templates,
	}

	a.setupMiddleware(config.RequestLogging)
	a.setupRoutes(config.API)

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware(requestLogging bool) {
	a.router.Use(middleware.RequestID)
	if requestLogging {
		a.router.Use(middleware.Logger)
	}
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes(api http.Handler) {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		a.logger.Error("static filesystem unavailable: %v", err)
	} else {
		a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	a.router.Get("/", a.handleIndex)
	a.router.Post("/calculate", a.handleCalculate)
	a.router.Get("/runs/{id}", a.handleRun)

	if api != nil {
		a.router.Handle("/api/*", api)
	}
}

// Handler exposes the router for an http.Server
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) renderTemplate(w http.ResponseWriter, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.logger.Error("template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("writing %s response: %v", templateName, err)
	}
}
