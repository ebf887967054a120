package gomponents

import (
	"bytes"
	goast "go/ast"
	"go/printer"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianc/gsxloc/internal/gsx/ast"
)

func render(t *testing.T, ex goast.Expr) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, printer.Fprint(&buf, token.NewFileSet(), ex))
	return buf.String()
}

func el(name ast.TagName, attrs []ast.Attr, children ...ast.Node) *ast.Element {
	return &ast.Element{Name: name, Attrs: attrs, Children: children}
}

func TestLowerNodes(t *testing.T) {
	tests := []struct {
		name     string
		node     ast.Node
		vars     map[string]string
		want     string
		wantCore bool
		wantHTML bool
	}{
		{
			name:     "html element with helpers",
			node:     el(ast.Ident{Name: "div"}, []ast.Attr{{Key: "class", Kind: ast.AttrString, Value: "page"}}, ast.Text{Value: "hi"}),
			want:     `Div(Class("page"), Text("hi"))`,
			wantCore: true,
			wantHTML: true,
		},
		{
			name:     "unknown element",
			node:     el(ast.Ident{Name: "custom-el"}, []ast.Attr{{Key: "data-x", Kind: ast.AttrString, Value: "1"}}),
			want:     `El("custom-el", Attr("data-x", "1"))`,
			wantCore: true,
		},
		{
			name: "component",
			node: el(ast.Ident{Name: "Card"},
				[]ast.Attr{{Key: "title", Kind: ast.AttrExpr, Value: "t"}},
				ast.Expr{Src: "body"}),
			vars:     map[string]string{"body": "Node"},
			want:     `Card(Attr("title", t), body)`,
			wantCore: true,
		},
		{
			name: "member component",
			node: el(ast.Member{Object: "ui.Form", Property: "Item"}, nil),
			want: `ui.Form.Item()`,
		},
		{
			name:     "namespaced element",
			node:     el(ast.Namespaced{Namespace: "svg", Name: "rect"}, nil),
			want:     `El("svg:rect")`,
			wantCore: true,
		},
		{
			name:     "conditional bool attribute",
			node:     el(ast.Ident{Name: "input"}, []ast.Attr{{Key: "disabled", Kind: ast.AttrExpr, Value: "off"}}),
			want:     `Input(If(off, Disabled()))`,
			wantCore: true,
			wantHTML: true,
		},
		{
			name:     "bool attribute",
			node:     el(ast.Ident{Name: "input"}, []ast.Attr{{Key: "required", Kind: ast.AttrBool}, {Key: "autofocus", Kind: ast.AttrBool}}),
			want:     `Input(Required(), Attr("autofocus"))`,
			wantCore: true,
			wantHTML: true,
		},
		{
			name:     "spread attribute",
			node:     el(ast.Ident{Name: "div"}, []ast.Attr{{Kind: ast.AttrSpread, Value: "attrs"}}),
			want:     `Div(attrs)`,
			wantHTML: true,
		},
		{
			name:     "node slice",
			node:     el(ast.Ident{Name: "ul"}, nil, ast.Expr{Src: "items"}),
			vars:     map[string]string{"items": "[]Node"},
			want:     `Ul(Group(items))`,
			wantCore: true,
			wantHTML: true,
		},
		{
			name:     "string class expression",
			node:     el(ast.Ident{Name: "p"}, []ast.Attr{{Key: "class", Kind: ast.AttrExpr, Value: "cls"}}, ast.Expr{Src: "If(ok, x)"}),
			vars:     map[string]string{"cls": "string"},
			want:     `P(Class(cls), If(ok, x))`,
			wantHTML: true,
		},
		{
			name:     "text expression",
			node:     ast.Expr{Src: "name"},
			want:     `Text(name)`,
			wantCore: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imports := &Imports{}
			ex, err := LowerNodes([]ast.Node{tt.node}, Context{VarTypes: tt.vars, Imports: imports})
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(t, ex))
			assert.Equal(t, tt.wantCore, imports.Core, "core import")
			assert.Equal(t, tt.wantHTML, imports.HTML, "html import")
		})
	}
}

func TestLowerNodes_GroupAndEmpty(t *testing.T) {
	ex, err := LowerNodes(nil, Context{})
	require.NoError(t, err)
	assert.Equal(t, "nil", render(t, ex))

	ex, err = LowerNodes([]ast.Node{ast.Text{Value: "a"}, el(ast.Ident{Name: "br"}, nil)}, Context{})
	require.NoError(t, err)
	assert.Equal(t, `Group{Text("a"), El("br")}`, render(t, ex))
}

func TestLowerNodes_InjectedStringAttributes(t *testing.T) {
	node := el(ast.Ident{Name: "span"}, []ast.Attr{
		{Key: "data-source-location", Kind: ast.AttrString, Value: "src/page.gsx:3:5"},
		{Key: "data-source-stack", Kind: ast.AttrString, Value: `{"fileName":"src/page.gsx"}`},
	})
	ex, err := LowerNodes([]ast.Node{node}, Context{})
	require.NoError(t, err)
	assert.Equal(t, `Span(Attr("data-source-location", "src/page.gsx:3:5"), Attr("data-source-stack", "{\"fileName\":\"src/page.gsx\"}"))`, render(t, ex))
}

func TestLowerNodes_Errors(t *testing.T) {
	_, err := LowerNodes([]ast.Node{ast.Expr{Src: "a +"}}, Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid expression")

	_, err = LowerNodes([]ast.Node{el(ast.Ident{Name: "a"}, []ast.Attr{{Key: "href", Kind: ast.AttrExpr, Value: "("}})}, Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid attribute expression")

	_, err = LowerNodes([]ast.Node{&ast.Element{}}, Context{})
	require.Error(t, err)
}
