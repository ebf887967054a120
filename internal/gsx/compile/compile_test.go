package compile

import (
	"errors"
	goparser "go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianc/gsxloc/internal/gsx/ast"
	"github.com/kilianc/gsxloc/internal/gsx/parse"
)

const helloSrc = `package views

func Hello(name string) Node {
	return <p class="greeting">Hello, {name}!</p>
}
`

func TestCompileFile_Basic(t *testing.T) {
	out, err := CompileFile("views/hello.gsx", []byte(helloSrc))
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, Header+"\n\npackage views\n"), s)
	assert.Contains(t, s, `. "maragu.dev/gomponents"`)
	assert.Contains(t, s, `. "maragu.dev/gomponents/html"`)
	assert.Contains(t, s, "\treturn P(Class(\"greeting\"), Text(\"Hello, \"), Text(name), Text(\"!\"))\n")
	assert.NotContains(t, s, "__gsx_")
}

func TestCompile_NestedRegions(t *testing.T) {
	src := "package views\n\nfunc List(ok bool) Node {\n\treturn <ul>{If(ok, <li>yes</li>)}</ul>\n}\n"

	res, err := Compile("views/list.gsx", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Regions)
	assert.Equal(t, 2, res.Elements)
	assert.Contains(t, string(res.Source), "return Ul(If(ok, Li(Text(\"yes\"))))")
}

func TestCompile_PluginsRunOncePerElementBeforeLowering(t *testing.T) {
	src := "package views\n\nfunc Card() Node {\n\treturn <section><h2>Title</h2><my-el /></section>\n}\n"

	var seen []string
	plugin := Plugin{
		Name: "tag",
		Element: func(el *ast.Element, parent ast.Node, state *State) bool {
			p := "none"
			if pe, ok := parent.(*ast.Element); ok {
				p = pe.Name.String()
			}
			seen = append(seen, el.Name.String()+"<"+p+"@"+state.Filename)
			el.Attrs = append(el.Attrs, ast.Attr{Key: "data-parent", Kind: ast.AttrString, Value: p})
			return el.Name.String() != "my-el"
		},
	}

	res, err := Compile("/abs/views/card.gsx", []byte(src), WithPlugins(plugin), WithFilename("views/card.gsx"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"section<none@views/card.gsx",
		"h2<section@views/card.gsx",
		"my-el<section@views/card.gsx",
	}, seen)
	assert.Equal(t, 3, res.Elements)
	assert.Equal(t, map[string]int{"tag": 2}, res.Changed)
	assert.Contains(t, string(res.Source),
		`return Section(Attr("data-parent", "none"), H2(Attr("data-parent", "section"), Text("Title")), El("my-el", Attr("data-parent", "section")))`)
}

func TestCompile_FilenameDefaultsToPath(t *testing.T) {
	var got []string
	plugin := Plugin{Name: "fn", Element: func(_ *ast.Element, _ ast.Node, s *State) bool {
		got = append(got, s.Filename)
		return false
	}}

	_, err := Compile("views/hello.gsx", []byte(helloSrc), WithPlugins(plugin))
	require.NoError(t, err)
	assert.Equal(t, []string{"views/hello.gsx"}, got)

	got = nil
	_, err = Compile("views/hello.gsx", []byte(helloSrc), WithPlugins(plugin), WithFilename(""))
	require.NoError(t, err)
	assert.Equal(t, []string{""}, got)
}

func TestCompile_CoreImportForSignatureOnly(t *testing.T) {
	src := "package views\n\nfunc Box() Node {\n\treturn <div class=\"box\" />\n}\n"

	out, err := CompileFile("box.gsx", []byte(src))
	require.NoError(t, err)
	assert.Contains(t, string(out), `. "maragu.dev/gomponents"`)
	assert.Contains(t, string(out), "return Div(Class(\"box\"))")
}

func TestCompile_NoMarkup(t *testing.T) {
	src := "package views\n\nfunc Less(a, b int) bool { return a <b }\n"

	res, err := Compile("less.gsx", []byte(src))
	require.NoError(t, err)
	assert.Zero(t, res.Regions)
	assert.NotContains(t, string(res.Source), "gomponents")
	assert.Contains(t, string(res.Source), "return a < b")
}

func TestCompile_Errors(t *testing.T) {
	t.Run("markup syntax", func(t *testing.T) {
		_, err := Compile("x.gsx", []byte("package p\n\nvar n = <div></p>\n"))
		var perr *parse.Error
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, 3, perr.Pos.Line)
	})
	t.Run("go syntax", func(t *testing.T) {
		_, err := Compile("x.gsx", []byte("package p\n\nfunc {\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse go:")
	})
	t.Run("expression", func(t *testing.T) {
		_, err := Compile("x.gsx", []byte("package p\n\nvar n = <a href={(}></a>\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "x.gsx:3:9: invalid attribute expression")
	})
}

func TestCollectVarTypes(t *testing.T) {
	src := `package p

var items []string
var title = "x"

func F(a string, b []g.Node, c int) (out Node) {
	x := "lit"
	y := []Node{}
	var z map[string]int
	_ = z
	return nil
}
`
	file, err := goparser.ParseFile(token.NewFileSet(), "p.go", src, 0)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"items": "[]string",
		"title": "string",
		"a":     "string",
		"b":     "[]Node",
		"out":   "Node",
		"x":     "string",
		"y":     "[]Node",
	}, collectVarTypes(file))
}
