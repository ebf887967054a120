package srcloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"absolute unix", "/repo/src/components/Button.gsx", "src/components/Button.gsx"},
		{"windows", `C:\work\app\src\views\page.gsx`, "src/views/page.gsx"},
		{"first boundary wins", "/repo/src/pkg/src/page.gsx", "src/pkg/src/page.gsx"},
		{"already relative", "src/views/page.gsx", "src/views/page.gsx"},
		{"module relative", "web/src/page.gsx", "src/page.gsx"},
		{"no boundary", "views/page.gsx", "views/page.gsx"},
		{"no boundary backslashes", `views\page.gsx`, "views/page.gsx"},
		{"srcs is not src", "/repo/srcs/page.gsx", "/repo/srcs/page.gsx"},
		{"mysrc is not src", "/repo/mysrc/page.gsx", "/repo/mysrc/page.gsx"},
		{"unknown", UnknownFile, UnknownFile},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePath(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizePath(got), "normalization must be idempotent")
		})
	}
}

func TestMetadata_EncodeDecode(t *testing.T) {
	line, col := 10, 12
	parent := "main"
	m := Metadata{
		FileName:      "src/page.gsx",
		LineNumber:    10,
		ColumnNumber:  5,
		EndLine:       10,
		EndColumn:     30,
		ElementType:   "Button",
		TagName:       "button",
		Attributes:    []Attribute{{Name: "onClick", HasValue: true, Line: &line, Column: &col}},
		HasChildren:   true,
		ParentElement: &parent,
	}

	s := m.Encode()
	assert.JSONEq(t, `{
		"fileName": "src/page.gsx",
		"lineNumber": 10,
		"columnNumber": 5,
		"endLine": 10,
		"endColumn": 30,
		"elementType": "Button",
		"tagName": "button",
		"attributes": [{"name": "onClick", "hasValue": true, "line": 10, "column": 12}],
		"hasChildren": true,
		"parentElement": "main"
	}`, s)

	got, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.Equal(t, "src/page.gsx:10:5", got.Location())
}

func TestMetadata_EncodeEmpty(t *testing.T) {
	s := Metadata{FileName: "x.gsx", ElementType: "br", TagName: "br"}.Encode()
	assert.Contains(t, s, `"attributes":[]`)
	assert.Contains(t, s, `"parentElement":null`)
	assert.Contains(t, s, `"hasChildren":false`)
}

func TestMetadata_AttributeWithoutPosition(t *testing.T) {
	s := Metadata{Attributes: []Attribute{{Name: "disabled"}}}.Encode()
	assert.Contains(t, s, `{"name":"disabled","hasValue":false}`)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode("{not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "srcloc: decode metadata")
}

func TestAttrs_Order(t *testing.T) {
	assert.Equal(t, []string{
		"data-source-location",
		"data-source-stack",
		"data-element-type",
		"data-line-number",
		"data-real-file",
		"data-real-line",
		"data-real-column",
		"data-injected-source",
	}, Attrs)
}

func TestParseLocation(t *testing.T) {
	path, line, col, err := ParseLocation("src/views/page.gsx:12:5")
	require.NoError(t, err)
	assert.Equal(t, "src/views/page.gsx", path)
	assert.Equal(t, 12, line)
	assert.Equal(t, 5, col)

	path, _, _, err = ParseLocation("C:/app/page.gsx:1:1")
	require.NoError(t, err)
	assert.Equal(t, "C:/app/page.gsx", path)

	for _, bad := range []string{"", "page.gsx", "page.gsx:1", "page.gsx:x:1", "page.gsx:1:y"} {
		_, _, _, err := ParseLocation(bad)
		assert.Error(t, err, bad)
	}
}
