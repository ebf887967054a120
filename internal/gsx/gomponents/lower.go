package gomponents

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	gotoken "go/token"
	"strings"

	"github.com/kilianc/gsxloc/internal/gsx/ast"
)

type Context struct {
	VarTypes map[string]string // Go type strings, e.g. "string", "[]string", "Node"
	// Imports, when set, records which gomponents packages the lowered code refers to.
	Imports *Imports
}

// Imports tracks references to maragu.dev/gomponents (Core) and
// maragu.dev/gomponents/html (HTML) made by lowered code.
type Imports struct {
	Core bool
	HTML bool
}

func (ctx Context) core(name string) *goast.Ident {
	if ctx.Imports != nil {
		ctx.Imports.Core = true
	}
	return goast.NewIdent(name)
}

func (ctx Context) html(name string) *goast.Ident {
	if ctx.Imports != nil {
		ctx.Imports.HTML = true
	}
	return goast.NewIdent(name)
}

// LowerNodes lowers a list of GSX nodes to a single Go expression that evaluates to Node.
func LowerNodes(nodes []ast.Node, ctx Context) (goast.Expr, error) {
	if len(nodes) == 0 {
		return goast.NewIdent("nil"), nil
	}
	if len(nodes) == 1 {
		return lowerNode(nodes[0], ctx)
	}
	var elts []goast.Expr
	for _, n := range nodes {
		ex, err := lowerNode(n, ctx)
		if err != nil {
			return nil, err
		}
		elts = append(elts, ex)
	}
	return &goast.CompositeLit{
		Type: ctx.core("Group"),
		Elts: elts,
	}, nil
}

func lowerNode(n ast.Node, ctx Context) (goast.Expr, error) {
	switch t := n.(type) {
	case ast.Text:
		return call(ctx.core("Text"), strLit(t.Value)), nil
	case ast.Expr:
		ex, err := parser.ParseExpr(t.Src)
		if err != nil {
			return nil, fmt.Errorf("invalid expression %q: %w", t.Src, err)
		}

		// If this is a local identifier and we know it is a Node, splice it as-is.
		if id, ok := ex.(*goast.Ident); ok {
			if ctx.VarTypes != nil {
				if typ, ok := ctx.VarTypes[id.Name]; ok && typ == "Node" {
					return id, nil
				}
				// If this is a slice of Nodes, splice it as a grouped node list.
				if typ, ok := ctx.VarTypes[id.Name]; ok && typ == "[]Node" {
					return call(ctx.core("Group"), id), nil
				}
			}
		}

		// If this looks like it produces a Node, splice it directly into children.
		// This enables patterns like `{If(cond, <p>...</p>)}` and `{Group(nodes)}`.
		if isLikelyNodeExpr(ex) {
			return ex, nil
		}
		// No implicit stringification: let the Go compiler surface a clear type error
		// if expr isn't a string.
		return call(ctx.core("Text"), ex), nil
	case *ast.Element:
		return lowerElement(t, ctx)
	default:
		return nil, fmt.Errorf("unsupported node type %T", n)
	}
}

func isLikelyNodeExpr(ex goast.Expr) bool {
	// Conservative heuristic: calls to identifiers starting with an uppercase letter are assumed
	// to return Node (Div/P/El/If/Group/MyComponent/etc).
	call, ok := ex.(*goast.CallExpr)
	if !ok {
		return false
	}
	switch fun := call.Fun.(type) {
	case *goast.Ident:
		if fun.Name == "" {
			return false
		}
		b := fun.Name[0]
		return b >= 'A' && b <= 'Z'
	default:
		return false
	}
}

func lowerElement(el *ast.Element, ctx Context) (goast.Expr, error) {
	var args []goast.Expr

	// attrs first
	for _, a := range el.Attrs {
		ax, err := lowerAttr(a, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, ax)
	}
	// then children
	for _, c := range el.Children {
		cx, err := lowerNode(c, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, cx)
	}

	switch name := el.Name.(type) {
	case ast.Ident:
		if fn := htmlElementFunc(name.Name); fn != "" {
			return call(ctx.html(fn), args...), nil
		}
		// Capitalized tags are components: func(...Node) Node.
		if isComponentName(name.Name) {
			return call(goast.NewIdent(name.Name), args...), nil
		}
	case ast.Member:
		return call(selector(name), args...), nil
	case nil:
		return nil, fmt.Errorf("element without a tag name")
	}
	allArgs := append([]goast.Expr{strLit(el.Name.String())}, args...)
	return call(ctx.core("El"), allArgs...), nil
}

func isComponentName(tag string) bool {
	if tag == "" || strings.Contains(tag, "-") {
		return false
	}
	return tag[0] >= 'A' && tag[0] <= 'Z'
}

// selector builds ui.Form.Field as nested selector expressions.
func selector(m ast.Member) goast.Expr {
	parts := strings.Split(m.Object, ".")
	var x goast.Expr = goast.NewIdent(parts[0])
	for _, p := range parts[1:] {
		x = &goast.SelectorExpr{X: x, Sel: goast.NewIdent(p)}
	}
	return &goast.SelectorExpr{X: x, Sel: goast.NewIdent(m.Property)}
}

func lowerAttr(a ast.Attr, ctx Context) (goast.Expr, error) {
	switch a.Kind {
	case ast.AttrBool:
		if fn := htmlBoolAttrFunc(a.Key); fn != "" {
			return call(ctx.html(fn)), nil
		}
		return call(ctx.core("Attr"), strLit(a.Key)), nil
	case ast.AttrString:
		if fn := htmlStringAttrFunc(a.Key); fn != "" {
			return call(ctx.html(fn), strLit(a.Value)), nil
		}
		return call(ctx.core("Attr"), strLit(a.Key), strLit(a.Value)), nil
	case ast.AttrSpread:
		// Attribute-node injection: `{expr}` in a start tag already produces an attribute Node.
		ex, err := parser.ParseExpr(a.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid attribute expression %q: %w", a.Value, err)
		}
		return ex, nil
	case ast.AttrExpr:
		ex, err := parser.ParseExpr(a.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid attribute expression %q: %w", a.Value, err)
		}

		// Allow attribute expressions that directly yield an attribute Node, e.g.
		// `data-id={If(showID, Attr("data-id", strconv.Itoa(id)))}`.
		if ce, ok := ex.(*goast.CallExpr); ok {
			if id, ok := ce.Fun.(*goast.Ident); ok {
				if id.Name == "If" || id.Name == "Iff" {
					return ex, nil
				}
			}
		}

		// Special-case class: allow either string (wrapped in Class(...)) or an attribute node
		// (e.g. components.Classes) for ergonomic conditional class patterns.
		if a.Key == "class" {
			// If we can prove it's string-ish, wrap in Class(...).
			if s, ok := lowerStringExpr(ex, ctx); ok {
				return call(ctx.html("Class"), s), nil
			}
			// If it's a known Node identifier, pass through.
			if id, ok := ex.(*goast.Ident); ok {
				if ctx.VarTypes != nil {
					if typ, ok := ctx.VarTypes[id.Name]; ok && typ == "Node" {
						return id, nil
					}
				}
			}
			// If it looks like it yields an attribute node (JoinAttrs/If/Class/etc), pass through.
			if isLikelyNodeExpr(ex) {
				return ex, nil
			}
			// Default: treat as string expr and let Go typecheck it.
			return call(ctx.html("Class"), ex), nil
		}

		// If this is a boolean attribute, treat `<input disabled={cond}>` like JSX:
		// include the attribute node only when cond is true.
		if fn := htmlBoolAttrFunc(a.Key); fn != "" {
			return call(ctx.core("If"), ex, call(ctx.html(fn))), nil
		}

		// Otherwise it's a string-ish attribute. We do not auto-coerce; let Go typecheck it.
		strExpr := ex

		if fn := htmlStringAttrFunc(a.Key); fn != "" {
			return call(ctx.html(fn), strExpr), nil
		}
		return call(ctx.core("Attr"), strLit(a.Key), strExpr), nil
	default:
		return nil, fmt.Errorf("unknown attr kind %v", a.Kind)
	}
}

func lowerStringExpr(ex goast.Expr, ctx Context) (goast.Expr, bool) {
	// identifier with known type
	if id, ok := ex.(*goast.Ident); ok {
		if t, ok := ctx.VarTypes[id.Name]; ok && t == "string" {
			return id, true
		}
	}

	// string literal
	if bl, ok := ex.(*goast.BasicLit); ok && bl.Kind == gotoken.STRING {
		return ex, true
	}

	// fmt.Sprintf(...) returns string
	if ce, ok := ex.(*goast.CallExpr); ok {
		if sel, ok := ce.Fun.(*goast.SelectorExpr); ok {
			if x, ok := sel.X.(*goast.Ident); ok && x.Name == "fmt" && sel.Sel != nil {
				switch sel.Sel.Name {
				case "Sprintf":
					return ex, true
				}
			}
		}
	}

	return nil, false
}

func call(fun goast.Expr, args ...goast.Expr) *goast.CallExpr {
	return &goast.CallExpr{Fun: fun, Args: args}
}

func strLit(s string) goast.Expr {
	return &goast.BasicLit{Kind: gotoken.STRING, Value: fmt.Sprintf("%q", s)}
}

func htmlElementFunc(tag string) string {
	switch tag {
	case "a":
		return "A"
	case "button":
		return "Button"
	case "div":
		return "Div"
	case "footer":
		return "Footer"
	case "form":
		return "Form"
	case "h1":
		return "H1"
	case "h2":
		return "H2"
	case "h3":
		return "H3"
	case "h4":
		return "H4"
	case "h5":
		return "H5"
	case "h6":
		return "H6"
	case "header":
		return "Header"
	case "img":
		return "Img"
	case "input":
		return "Input"
	case "label":
		return "Label"
	case "li":
		return "Li"
	case "main":
		return "Main"
	case "nav":
		return "Nav"
	case "p":
		return "P"
	case "section":
		return "Section"
	case "span":
		return "Span"
	case "ul":
		return "Ul"
	default:
		return ""
	}
}

func htmlStringAttrFunc(key string) string {
	switch key {
	case "class":
		return "Class"
	case "href":
		return "Href"
	case "id":
		return "ID"
	case "src":
		return "Src"
	case "style":
		return "Style"
	default:
		return ""
	}
}

func htmlBoolAttrFunc(key string) string {
	switch key {
	case "checked":
		return "Checked"
	case "disabled":
		return "Disabled"
	case "required":
		return "Required"
	case "selected":
		return "Selected"
	default:
		return ""
	}
}
