// Package parse reads Go-first .gsx sources: Go files with `<tag>` markup in
// expression position.
//
// Every top-level markup expression becomes a Region whose root element is a
// GSX tree with source spans. In the returned Go text the region is replaced
// by a placeholder identifier, so the remainder can be handled by go/parser.
// Markup nested inside a `{...}` expression becomes its own Region.
package parse

import (
	"fmt"
	"go/scanner"
	"go/token"
	"sort"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/kilianc/gsxloc/internal/gsx/ast"
)

// Error is a positioned syntax error.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

type Region struct {
	// Placeholder is the identifier standing in for the region in File.Go.
	Placeholder string
	// Offset and End are byte offsets of the markup in the original source.
	Offset int
	End    int
	Root   *ast.Element
}

type File struct {
	Name string
	// Go is the source with every top-level region replaced by its placeholder.
	Go []byte
	// Regions are sorted by Offset, nested regions included.
	Regions []*Region
}

// Region returns the region for a placeholder identifier.
func (f *File) Region(placeholder string) (*Region, bool) {
	for _, r := range f.Regions {
		if r.Placeholder == placeholder {
			return r, true
		}
	}
	return nil, false
}

// Roots returns the root element of every region.
func (f *File) Roots() []ast.Node {
	out := make([]ast.Node, 0, len(f.Regions))
	for _, r := range f.Regions {
		out = append(out, r.Root)
	}
	return out
}

const placeholderPrefix = "__gsx_"

// IsPlaceholder reports whether name was generated by ParseFile.
func IsPlaceholder(name string) bool {
	return strings.HasPrefix(name, placeholderPrefix)
}

// ParseFile parses src. filename is only used for positions.
func ParseFile(filename string, src []byte) (*File, error) {
	fset := token.NewFileSet()
	tf := fset.AddFile(filename, -1, len(src))
	tf.SetLinesForContent(src)

	p := &parser{src: src, file: tf}
	text, _, err := p.scanGo(0, false)
	if err != nil {
		return nil, err
	}
	sort.Slice(p.regions, func(i, j int) bool { return p.regions[i].Offset < p.regions[j].Offset })
	return &File{Name: filename, Go: []byte(text), Regions: p.regions}, nil
}

type parser struct {
	src     []byte
	file    *token.File
	regions []*Region
}

func (p *parser) errorf(off int, format string, args ...any) error {
	return &Error{Pos: p.file.Position(p.file.Pos(off)), Msg: fmt.Sprintf(format, args...)}
}

// pos converts a byte offset to a position whose column counts UTF-16 code
// units, the unit browser tooling uses for columns.
func (p *parser) pos(off int) ast.Position {
	tp := p.file.Position(p.file.Pos(off))
	col := 0
	for _, r := range string(p.src[off-(tp.Column-1) : off]) {
		col += utf16.RuneLen(r)
	}
	return ast.Position{Line: tp.Line, Column: col}
}

func (p *parser) span(start, end int) ast.Span {
	return ast.Span{Start: p.pos(start), End: p.pos(end)}
}

func (p *parser) at(i int) byte {
	if i < len(p.src) {
		return p.src[i]
	}
	return 0
}

// scanGo copies Go source starting at off, replacing markup with placeholders.
// With inBraces it stops at the `}` closing the expression container and
// returns its offset; otherwise it runs to the end of the source.
func (p *parser) scanGo(off int, inBraces bool) (string, int, error) {
	var b strings.Builder
	depth := 0
	// operand is true when the previous token ends an operand, which makes a
	// following `<` a comparison rather than markup.
	operand := false
	i := off
	for i < len(p.src) {
		c := p.src[i]
		switch {
		case c == '}' && inBraces && depth == 0:
			return b.String(), i, nil
		case c == '/' && p.at(i+1) == '/':
			j := i
			for j < len(p.src) && p.src[j] != '\n' {
				j++
			}
			b.Write(p.src[i:j])
			i = j
		case c == '/' && p.at(i+1) == '*':
			j := strings.Index(string(p.src[i+2:]), "*/")
			if j < 0 {
				return "", 0, p.errorf(i, "comment not terminated")
			}
			j += i + 4
			b.Write(p.src[i:j])
			i = j
		case c == '"' || c == '\'' || c == '`':
			j, err := p.skipQuoted(i)
			if err != nil {
				return "", 0, err
			}
			b.Write(p.src[i:j])
			i = j
			operand = true
		case c == '{':
			depth++
			b.WriteByte(c)
			i++
			operand = false
		case c == '}':
			depth--
			b.WriteByte(c)
			i++
			operand = true
		case c == ')' || c == ']':
			b.WriteByte(c)
			i++
			operand = true
		case c == '<' && !operand && isTagStart(p.at(i+1)):
			el, end, err := p.parseElement(i)
			if err != nil {
				return "", 0, err
			}
			r := &Region{
				Placeholder: fmt.Sprintf("%s%d", placeholderPrefix, len(p.regions)),
				Offset:      i,
				End:         end,
				Root:        el,
			}
			p.regions = append(p.regions, r)
			b.WriteString(r.Placeholder)
			i = end
			operand = true
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			b.WriteByte(c)
			i++
		case c >= '0' && c <= '9' || c == '.' && p.at(i+1) >= '0' && p.at(i+1) <= '9':
			j := i
			for j < len(p.src) && (isIdentByte(p.src[j]) || p.src[j] == '.') {
				j++
			}
			b.Write(p.src[i:j])
			i = j
			operand = true
		default:
			if r, n := utf8.DecodeRune(p.src[i:]); r == '_' || unicode.IsLetter(r) {
				j := i + n
				for j < len(p.src) {
					r, n := utf8.DecodeRune(p.src[j:])
					if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
						break
					}
					j += n
				}
				word := string(p.src[i:j])
				b.WriteString(word)
				i = j
				operand = !token.IsKeyword(word)
				continue
			}
			b.WriteByte(c)
			i++
			operand = false
		}
	}
	if inBraces {
		return "", 0, p.errorf(off-1, "expression not terminated, missing '}'")
	}
	return b.String(), i, nil
}

// skipQuoted returns the offset just past the string or rune literal at off.
func (p *parser) skipQuoted(off int) (int, error) {
	q := p.src[off]
	for j := off + 1; j < len(p.src); j++ {
		switch c := p.src[j]; {
		case c == q:
			return j + 1, nil
		case c == '\\' && q != '`':
			j++
		case c == '\n' && q != '`':
			return 0, p.errorf(off, "literal not terminated")
		}
	}
	return 0, p.errorf(off, "literal not terminated")
}

func (p *parser) skipSpace(i int) int {
	for i < len(p.src) && isSpace(p.src[i]) {
		i++
	}
	return i
}

// parseElement parses the element starting with the `<` at off and returns
// it with the offset just past its end.
func (p *parser) parseElement(off int) (*ast.Element, int, error) {
	name, raw, i, err := p.parseTagName(off + 1)
	if err != nil {
		return nil, 0, err
	}
	el := &ast.Element{Name: name}

	for {
		i = p.skipSpace(i)
		switch c := p.at(i); {
		case c == 0:
			return nil, 0, p.errorf(off, "unterminated start tag <%s>", raw)
		case c == '/' && p.at(i+1) == '>':
			el.SelfClosing = true
			el.Span = p.span(off, i+2)
			return el, i + 2, nil
		case c == '>':
			end, err := p.parseChildren(el, raw, off, i+1)
			if err != nil {
				return nil, 0, err
			}
			el.Span = p.span(off, end)
			return el, end, nil
		case c == '{':
			src, close, err := p.scanGo(i+1, true)
			if err != nil {
				return nil, 0, err
			}
			el.Attrs = append(el.Attrs, ast.Attr{
				Kind:  ast.AttrSpread,
				Value: strings.TrimSpace(src),
				Span:  p.span(i, close+1),
			})
			i = close + 1
		case isAttrNameByte(c):
			a, end, err := p.parseAttr(i)
			if err != nil {
				return nil, 0, err
			}
			el.Attrs = append(el.Attrs, a)
			i = end
		default:
			return nil, 0, p.errorf(i, "unexpected %q in <%s>", c, raw)
		}
	}
}

func (p *parser) parseTagName(off int) (ast.TagName, string, int, error) {
	i := off
	for i < len(p.src) && (isIdentByte(p.src[i]) || p.src[i] == '-' || p.src[i] == '.' || p.src[i] == ':') {
		i++
	}
	raw := string(p.src[off:i])
	if raw == "" {
		return nil, "", 0, p.errorf(off, "missing tag name")
	}
	if ns, local, ok := strings.Cut(raw, ":"); ok {
		if ns == "" || local == "" || strings.ContainsAny(local, ":.") || strings.Contains(ns, ".") {
			return nil, "", 0, p.errorf(off, "invalid tag name %q", raw)
		}
		return ast.Namespaced{Namespace: ns, Name: local}, raw, i, nil
	}
	if dot := strings.LastIndexByte(raw, '.'); dot >= 0 {
		obj, prop := raw[:dot], raw[dot+1:]
		if obj == "" || prop == "" || strings.Contains(obj, "..") || strings.HasPrefix(obj, ".") {
			return nil, "", 0, p.errorf(off, "invalid tag name %q", raw)
		}
		return ast.Member{Object: obj, Property: prop}, raw, i, nil
	}
	return ast.Ident{Name: raw}, raw, i, nil
}

func (p *parser) parseAttr(off int) (ast.Attr, int, error) {
	i := off
	for i < len(p.src) && isAttrNameByte(p.src[i]) {
		i++
	}
	a := ast.Attr{Key: string(p.src[off:i]), Kind: ast.AttrBool}

	j := p.skipSpace(i)
	if p.at(j) != '=' {
		a.Span = p.span(off, i)
		return a, i, nil
	}
	j = p.skipSpace(j + 1)
	switch q := p.at(j); q {
	case '"', '\'':
		k := j + 1
		for k < len(p.src) && p.src[k] != q {
			k++
		}
		if k >= len(p.src) {
			return ast.Attr{}, 0, p.errorf(j, "unterminated value for attribute %q", a.Key)
		}
		a.Kind = ast.AttrString
		a.Value = string(p.src[j+1 : k])
		a.Span = p.span(off, k+1)
		return a, k + 1, nil
	case '{':
		src, close, err := p.scanGo(j+1, true)
		if err != nil {
			return ast.Attr{}, 0, err
		}
		a.Kind = ast.AttrExpr
		a.Value = strings.TrimSpace(src)
		if a.Value == "" {
			return ast.Attr{}, 0, p.errorf(j, "empty expression for attribute %q", a.Key)
		}
		a.Span = p.span(off, close+1)
		return a, close + 1, nil
	default:
		return ast.Attr{}, 0, p.errorf(j, "expected quoted value or {expression} for attribute %q", a.Key)
	}
}

// parseChildren parses children of el from off up to and including the
// matching close tag, returning the offset past it.
func (p *parser) parseChildren(el *ast.Element, raw string, start, off int) (int, error) {
	i := off
	for {
		switch c := p.at(i); {
		case i >= len(p.src):
			return 0, p.errorf(start, "unterminated element <%s>", raw)
		case c == '<' && p.at(i+1) == '/':
			_, closeRaw, j, err := p.parseTagName(p.skipSpace(i + 2))
			if err != nil {
				return 0, err
			}
			j = p.skipSpace(j)
			if p.at(j) != '>' {
				return 0, p.errorf(j, "expected '>' to close </%s", closeRaw)
			}
			if closeRaw != raw {
				return 0, p.errorf(i, "closing tag </%s> does not match <%s>", closeRaw, raw)
			}
			el.HasContent = i > off
			return j + 1, nil
		case c == '<' && isTagStart(p.at(i+1)):
			child, end, err := p.parseElement(i)
			if err != nil {
				return 0, err
			}
			el.Children = append(el.Children, child)
			i = end
		case c == '<':
			return 0, p.errorf(i, "unexpected '<' in text, use {\"<\"}")
		case c == '{':
			src, close, err := p.scanGo(i+1, true)
			if err != nil {
				return 0, err
			}
			if !isBlankExpr(src) {
				el.Children = append(el.Children, ast.Expr{
					Src:  strings.TrimSpace(src),
					Span: p.span(i, close+1),
				})
			}
			i = close + 1
		default:
			j := i
			for j < len(p.src) && p.src[j] != '<' && p.src[j] != '{' {
				j++
			}
			if s := cleanText(string(p.src[i:j])); s != "" {
				el.Children = append(el.Children, ast.Text{Value: s})
			}
			i = j
		}
	}
}

// cleanText applies JSX whitespace rules: text on a single line is kept as
// is; multi-line text is trimmed around line breaks, blank lines dropped and
// the rest joined with single spaces.
func cleanText(s string) string {
	if !strings.ContainsAny(s, "\n") {
		return s
	}
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	lastNonEmpty := -1
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lastNonEmpty = i
		}
	}
	var b strings.Builder
	for i, l := range lines {
		l = strings.ReplaceAll(l, "\t", " ")
		if i != 0 {
			l = strings.TrimLeft(l, " \r")
		}
		if i != len(lines)-1 {
			l = strings.TrimRight(l, " \r")
		}
		if l == "" {
			continue
		}
		b.WriteString(l)
		if i != lastNonEmpty {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// isBlankExpr reports whether src holds nothing but whitespace and comments.
func isBlankExpr(src string) bool {
	var s scanner.Scanner
	fset := token.NewFileSet()
	f := fset.AddFile("", -1, len(src))
	s.Init(f, []byte(src), nil, 0)
	for {
		_, tok, _ := s.Scan()
		switch tok {
		case token.EOF:
			return true
		case token.SEMICOLON:
			// automatic semicolon at a newline
			continue
		default:
			return false
		}
	}
}

func isTagStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentByte(c byte) bool {
	return isTagStart(c) || c >= '0' && c <= '9' || c == '_'
}

func isAttrNameByte(c byte) bool {
	return isIdentByte(c) || c == '-' || c == ':' || c == '@' || c == '.'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
