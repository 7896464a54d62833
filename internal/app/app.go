package app

import (
	"io"
	"log/slog"

	"github.com/prjkit/prjgen/internal/registry"
	"github.com/prjkit/prjgen/internal/render"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	renderer *render.Renderer
	config   *Config
}

// New is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry. When
// no registrars are given, the compiled-in core modules are used.
func New(outW io.Writer, cfg *Config, registrars ...registry.Registrar) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(registrars) == 0 {
		registrars = coreModules
	}
	for _, mod := range registrars {
		mod.Register(reg)
	}
	logger.Debug("All modules registered.", "count", len(registrars))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		renderer: render.New(),
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
