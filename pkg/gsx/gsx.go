package gsx

import (
	"github.com/kilianc/gsxloc/internal/gsx/compile"
	"github.com/kilianc/gsxloc/internal/gsx/inject"
)

type Option = compile.Option

// WithSourceLocations stamps every markup element with data-* attributes
// pointing back to its position in the .gsx source. See package srcloc for
// the attribute set.
func WithSourceLocations() Option {
	return compile.WithPlugins(inject.Plugin())
}

// WithFilename sets the file name recorded in injected source locations.
// It defaults to the path given to CompileFile.
func WithFilename(name string) Option {
	return compile.WithFilename(name)
}

// CompileFile compiles a Go-first .gsx source (a Go file with embedded `<tag>` expressions)
// into a gofmt'd Go source file.
//
// The result is suitable for writing to "<path>.go" (i.e. "*.gsx.go") and checking in.
func CompileFile(path string, src []byte, opts ...Option) ([]byte, error) {
	return compile.CompileFile(path, src, opts...)
}
