// Package compile turns a Go-first .gsx source into a gofmt'd Go file.
//
// The pipeline is: parse markup regions, run element plugins over every
// region in document order, lower markup to gomponents calls, splice the
// calls into the Go syntax tree, add the gomponents imports the lowering
// needs, print.
package compile

import (
	"bytes"
	"fmt"
	goast "go/ast"
	"go/format"
	goparser "go/parser"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/kilianc/gsxloc/internal/gsx/ast"
	"github.com/kilianc/gsxloc/internal/gsx/gomponents"
	"github.com/kilianc/gsxloc/internal/gsx/parse"
)

const (
	gomponentsPath = "maragu.dev/gomponents"
	htmlPath       = "maragu.dev/gomponents/html"
)

// Header is the first line of every generated file.
const Header = "// Code generated by gsx. DO NOT EDIT."

// State is handed to plugins for every element of one file.
type State struct {
	// Filename is the file name as the build resolved it. It may be empty.
	Filename string
}

// Plugin is called once per element, parents before children, before the
// element is lowered. It may append attributes to el but must not touch
// anything else. It reports whether it changed el.
type Plugin struct {
	Name    string
	Element func(el *ast.Element, parent ast.Node, state *State) bool
}

type options struct {
	filename string
	plugins  []Plugin
}

type Option func(*options)

// WithPlugins registers element plugins, run in the given order.
func WithPlugins(plugins ...Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugins...)
	}
}

// WithFilename sets the file name reported to plugins. It defaults to the
// path passed to Compile.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

type Result struct {
	Source []byte
	// Regions is the number of markup expressions in the file, nested ones included.
	Regions int
	// Elements is the number of markup elements in the file.
	Elements int
	// Changed counts, per plugin name, the elements the plugin modified.
	Changed map[string]int
}

// CompileFile compiles src and returns the generated Go source.
func CompileFile(path string, src []byte, opts ...Option) ([]byte, error) {
	res, err := Compile(path, src, opts...)
	if err != nil {
		return nil, err
	}
	return res.Source, nil
}

// Compile compiles src and returns the generated Go source with statistics.
func Compile(path string, src []byte, opts ...Option) (*Result, error) {
	o := options{filename: path}
	for _, opt := range opts {
		opt(&o)
	}

	pf, err := parse.ParseFile(path, src)
	if err != nil {
		return nil, err
	}

	res := &Result{Regions: len(pf.Regions), Changed: map[string]int{}}
	state := &State{Filename: o.filename}
	ast.Walk(pf.Roots(), func(el *ast.Element, parent ast.Node) {
		res.Elements++
		for _, p := range o.plugins {
			if p.Element(el, parent, state) {
				res.Changed[p.Name]++
			}
		}
	})

	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, path, pf.Go, goparser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse go: %w", err)
	}

	imports := &gomponents.Imports{}
	ctx := gomponents.Context{VarTypes: collectVarTypes(file), Imports: imports}
	for _, r := range pf.Regions {
		ctx.VarTypes[r.Placeholder] = "Node"
	}

	s := &splicer{path: path, file: pf, ctx: ctx, lowered: map[string]goast.Expr{}}
	astutil.Apply(file, s.replace, nil)
	if s.err != nil {
		return nil, s.err
	}

	if imports.Core || usesCore(file) {
		astutil.AddNamedImport(fset, file, ".", gomponentsPath)
	}
	if imports.HTML {
		astutil.AddNamedImport(fset, file, ".", htmlPath)
	}

	var buf bytes.Buffer
	buf.WriteString(Header + "\n\n")
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, fmt.Errorf("%s: format: %w", path, err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%s: format: %w", path, err)
	}
	res.Source = out
	return res, nil
}

// splicer replaces region placeholders with lowered gomponents expressions.
type splicer struct {
	path    string
	file    *parse.File
	ctx     gomponents.Context
	lowered map[string]goast.Expr
	err     error
}

func (s *splicer) replace(c *astutil.Cursor) bool {
	if s.err != nil {
		return false
	}
	id, ok := c.Node().(*goast.Ident)
	if !ok || !parse.IsPlaceholder(id.Name) || c.Name() == "Sel" {
		return true
	}
	ex, err := s.lower(id.Name)
	if err != nil {
		s.err = err
		return false
	}
	c.Replace(ex)
	return true
}

func (s *splicer) lower(placeholder string) (goast.Expr, error) {
	if ex, ok := s.lowered[placeholder]; ok {
		return ex, nil
	}
	r, ok := s.file.Region(placeholder)
	if !ok {
		return nil, fmt.Errorf("%s: unknown markup placeholder %s", s.path, placeholder)
	}
	ex, err := gomponents.LowerNodes([]ast.Node{r.Root}, s.ctx)
	if err != nil {
		start := r.Root.Span.Start
		return nil, fmt.Errorf("%s:%d:%d: %w", s.path, start.Line, start.Column+1, err)
	}
	// Nested regions show up as placeholders inside expressions.
	ex = astutil.Apply(ex, s.replace, nil).(goast.Expr)
	if s.err != nil {
		return nil, s.err
	}
	s.lowered[placeholder] = ex
	return ex, nil
}
