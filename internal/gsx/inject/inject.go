// Package inject stamps markup elements with the source location that
// produced them, as data-* attributes described by package srcloc.
//
// It runs as a compile plugin, once per element and before lowering, so the
// attributes flow into the generated gomponents calls like any other
// attribute written by hand.
package inject

import (
	"strconv"
	"strings"

	"github.com/kilianc/gsxloc/internal/gsx/ast"
	"github.com/kilianc/gsxloc/internal/gsx/compile"
	"github.com/kilianc/gsxloc/pkg/gsx/srcloc"
)

// PluginName is the name the transform registers under.
const PluginName = "inject-source-location"

// Plugin returns the transform as a compile plugin.
func Plugin() compile.Plugin {
	return compile.Plugin{
		Name: PluginName,
		Element: func(el *ast.Element, parent ast.Node, state *compile.State) bool {
			return Element(el, parent, state.Filename)
		},
	}
}

// Element appends the source-location attributes to el and reports whether
// it did. Elements without a start position, and elements that were already
// instrumented, are left untouched.
func Element(el *ast.Element, parent ast.Node, filename string) bool {
	if filename == "" {
		filename = srcloc.UnknownFile
	}

	start := el.Span.Start
	if !start.IsValid() {
		return false
	}
	if injected(el) {
		return false
	}
	end := el.Span.End
	if !end.IsValid() {
		end = start
	}

	path := srcloc.NormalizePath(filename)
	elementType := ElementType(el.Name)

	md := srcloc.Metadata{
		FileName:      path,
		LineNumber:    start.Line,
		ColumnNumber:  start.Column + 1,
		EndLine:       end.Line,
		EndColumn:     end.Column + 1,
		ElementType:   elementType,
		TagName:       strings.ToLower(elementType),
		Attributes:    describeAttrs(el.Attrs),
		HasChildren:   el.HasContent || len(el.Children) > 0,
		ParentElement: ParentType(parent),
	}

	line := strconv.Itoa(start.Line)
	col := strconv.Itoa(md.ColumnNumber)
	el.Attrs = append(el.Attrs,
		str(srcloc.AttrLocation, md.Location()),
		str(srcloc.AttrStack, md.Encode()),
		str(srcloc.AttrElementType, elementType),
		str(srcloc.AttrLineNumber, line),
		str(srcloc.AttrRealFile, path),
		str(srcloc.AttrRealLine, line),
		str(srcloc.AttrRealColumn, col),
		str(srcloc.AttrInjected, srcloc.InjectionMethod),
	)
	return true
}

// ElementType resolves the display name of a tag: "div", "Form.Item", or
// "unknown" for any other shape.
func ElementType(name ast.TagName) string {
	switch n := name.(type) {
	case ast.Ident:
		return n.Name
	case ast.Member:
		return n.Object + "." + n.Property
	default:
		return "unknown"
	}
}

// ParentType returns the element type of parent, or nil when parent is not
// an element.
func ParentType(parent ast.Node) *string {
	el, ok := parent.(*ast.Element)
	if !ok || el == nil {
		return nil
	}
	t := ElementType(el.Name)
	return &t
}

func describeAttrs(attrs []ast.Attr) []srcloc.Attribute {
	out := []srcloc.Attribute{}
	for _, a := range attrs {
		if a.Kind == ast.AttrSpread || a.Key == "" {
			continue
		}
		d := srcloc.Attribute{
			Name:     a.Key,
			HasValue: a.Kind != ast.AttrBool,
		}
		if a.Span.Start.IsValid() {
			line, col := a.Span.Start.Line, a.Span.Start.Column
			d.Line, d.Column = &line, &col
		}
		out = append(out, d)
	}
	return out
}

// injected reports whether el carries a marker synthesized by an earlier run.
// A marker written in the source has a span and does not count.
func injected(el *ast.Element) bool {
	a, ok := el.Attr(srcloc.AttrInjected)
	return ok && !a.Span.Start.IsValid()
}

// Synthesized attributes carry no span: they do not exist in the source.
func str(key, value string) ast.Attr {
	return ast.Attr{Key: key, Kind: ast.AttrString, Value: value}
}
