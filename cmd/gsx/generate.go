package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/kilianc/gsxloc/internal/gsx/compile"
	"github.com/kilianc/gsxloc/internal/gsx/inject"
	"github.com/kilianc/gsxloc/internal/gsx/outfile"
)

type generator struct {
	// moduleRoot anchors the file names recorded in injected locations.
	moduleRoot   string
	injectSource bool
	jobs         int
	log          *log.Logger
}

// generateFiles compiles every path, jobs at a time. Each file is parsed and
// instrumented by a single goroutine. All failures are reported, in path order.
func (g *generator) generateFiles(paths []string) error {
	errs := make([]error, len(paths))
	var eg errgroup.Group
	if g.jobs > 0 {
		eg.SetLimit(g.jobs)
	}
	for i, pth := range paths {
		eg.Go(func() error {
			errs[i] = g.generateFile(pth)
			return nil
		})
	}
	_ = eg.Wait()
	return errors.Join(errs...)
}

func (g *generator) generateFile(pth string) error {
	b, err := os.ReadFile(pth)
	if err != nil {
		return err
	}

	name := g.sourceName(pth)
	opts := []compile.Option{compile.WithFilename(name)}
	if g.injectSource {
		opts = append(opts, compile.WithPlugins(inject.Plugin()))
	}
	res, err := compile.Compile(pth, b, opts...)
	if err != nil {
		return err
	}

	outPath := outfile.GeneratedPath(pth)
	wrote, err := outfile.WriteGeneratedFile(outPath, res.Source)
	if err != nil {
		return err
	}
	g.log.Debug().
		Str("file", name).
		Int("regions", res.Regions).
		Int("elements", res.Elements).
		Int("instrumented", res.Changed[inject.PluginName]).
		Bool("written", wrote).
		Msg("compiled")
	return nil
}

// sourceName is the slash-separated path of pth relative to the module root,
// or pth itself when it lies outside the module.
func (g *generator) sourceName(pth string) string {
	if g.moduleRoot == "" {
		return filepath.ToSlash(pth)
	}
	rel, err := filepath.Rel(g.moduleRoot, pth)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(pth)
	}
	return filepath.ToSlash(rel)
}
