package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prjkit/prjgen/internal/ctxlog"
	"github.com/prjkit/prjgen/internal/render"
	"github.com/prjkit/prjgen/internal/resolver"
)

// Run executes one full generation: resolve includes, validate and derive
// the document, render every matched module, then write all output files.
// Nothing is written unless every module rendered successfully.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	res := resolver.New(a.config.IncludePaths...)
	raw, err := res.Resolve(ctx, a.config.ProjectFile)
	if err != nil {
		return &PhaseError{Phase: PhaseResolution, Err: err}
	}
	a.logger.Debug("Project document merged.", "top_level_elements", len(raw.Elements))

	doc, err := a.registry.Run(ctx, raw)
	if err != nil {
		return &PhaseError{Phase: PhaseValidation, Err: err}
	}

	var outputs []*render.Output
	for _, mod := range a.registry.Modules() {
		el := doc.ByKind(mod.BlockKind)
		if el == nil {
			a.logger.Debug("Module has no subtree in this project, skipping.", "module", mod.Name)
			continue
		}
		grants, err := render.ResolveGrants(mod.Name, mod.Grants, doc)
		if err != nil {
			return &PhaseError{Phase: PhaseRendering, Err: err}
		}
		out, err := a.renderer.Render(ctx, mod.Name, mod.Templates, el, grants)
		if err != nil {
			return &PhaseError{Phase: PhaseRendering, Err: err}
		}
		outputs = append(outputs, out)
	}

	if err := a.writeOutputs(outputs); err != nil {
		return &PhaseError{Phase: PhaseRendering, Err: err}
	}

	a.logger.Info("Generation complete.", "modules", len(outputs), "output_dir", a.config.OutputDir)
	return nil
}

// writeOutputs writes every rendered file pair to the output directory.
// Rendering happened fully in memory, so a failing run never leaves partial
// module output behind.
func (a *App) writeOutputs(outputs []*render.Output) error {
	if len(outputs) == 0 {
		return nil
	}
	if err := os.MkdirAll(a.config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, out := range outputs {
		headerPath := filepath.Join(a.config.OutputDir, out.HeaderName)
		if err := os.WriteFile(headerPath, out.Header, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", headerPath, err)
		}
		sourcePath := filepath.Join(a.config.OutputDir, out.SourceName)
		if err := os.WriteFile(sourcePath, out.Source, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", sourcePath, err)
		}
		a.logger.Debug("Output written.", "header", headerPath, "source", sourcePath)
	}
	return nil
}
