// Package srcloc describes the source-location attributes that gsx injects
// into markup at build time, and decodes them again.
//
// Every instrumented element carries, in this order:
//
//	data-source-location  "src/views/page.gsx:12:5"
//	data-source-stack     JSON encoded Metadata
//	data-element-type     "Form.Item"
//	data-line-number      "12"
//	data-real-file        "src/views/page.gsx"
//	data-real-line        "12"
//	data-real-column      "5"
//	data-injected-source  "gsx"
//
// Lines and columns in the location string and the data-real-* attributes are
// 1-based.
package srcloc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	AttrLocation    = "data-source-location"
	AttrStack       = "data-source-stack"
	AttrElementType = "data-element-type"
	AttrLineNumber  = "data-line-number"
	AttrRealFile    = "data-real-file"
	AttrRealLine    = "data-real-line"
	AttrRealColumn  = "data-real-column"
	AttrInjected    = "data-injected-source"
)

// Attrs lists the injected attribute names in emission order.
var Attrs = []string{
	AttrLocation,
	AttrStack,
	AttrElementType,
	AttrLineNumber,
	AttrRealFile,
	AttrRealLine,
	AttrRealColumn,
	AttrInjected,
}

// InjectionMethod is the value of data-injected-source.
const InjectionMethod = "gsx"

// UnknownFile stands in for a file name the build could not provide.
const UnknownFile = "unknown"

// Metadata is the record serialized into data-source-stack. Field names are
// part of the wire format and must not change.
type Metadata struct {
	FileName      string      `json:"fileName"`
	LineNumber    int         `json:"lineNumber"`
	ColumnNumber  int         `json:"columnNumber"`
	EndLine       int         `json:"endLine"`
	EndColumn     int         `json:"endColumn"`
	ElementType   string      `json:"elementType"`
	TagName       string      `json:"tagName"`
	Attributes    []Attribute `json:"attributes"`
	HasChildren   bool        `json:"hasChildren"`
	ParentElement *string     `json:"parentElement"`
}

// Attribute describes one attribute the element had in source. Line and
// Column are the attribute's own start, Column 0-based; both are absent when
// the attribute has no recorded position.
type Attribute struct {
	Name     string `json:"name"`
	HasValue bool   `json:"hasValue"`
	Line     *int   `json:"line,omitempty"`
	Column   *int   `json:"column,omitempty"`
}

// Encode returns the JSON text stored in data-source-stack.
func (m Metadata) Encode() string {
	if m.Attributes == nil {
		m.Attributes = []Attribute{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		// Metadata holds only strings, ints and bools.
		panic(err)
	}
	return string(b)
}

// Location formats the data-source-location value.
func (m Metadata) Location() string {
	return FormatLocation(m.FileName, m.LineNumber, m.ColumnNumber)
}

// Decode parses a data-source-stack value.
func Decode(s string) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return Metadata{}, fmt.Errorf("srcloc: decode metadata: %w", err)
	}
	return m, nil
}

// FormatLocation renders "path:line:col". col must already be 1-based.
func FormatLocation(path string, line, col int) string {
	return fmt.Sprintf("%s:%d:%d", path, line, col)
}

// ParseLocation splits a data-source-location value into its parts. The
// path may itself contain colons (C:/...), only the last two fields are
// taken as line and column.
func ParseLocation(s string) (path string, line, col int, err error) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return "", 0, 0, fmt.Errorf("srcloc: invalid location %q", s)
	}
	j := strings.LastIndexByte(s[:i], ':')
	if j < 0 {
		return "", 0, 0, fmt.Errorf("srcloc: invalid location %q", s)
	}
	if line, err = strconv.Atoi(s[j+1 : i]); err != nil {
		return "", 0, 0, fmt.Errorf("srcloc: invalid line in location %q", s)
	}
	if col, err = strconv.Atoi(s[i+1:]); err != nil {
		return "", 0, 0, fmt.Errorf("srcloc: invalid column in location %q", s)
	}
	return s[:j], line, col, nil
}

// sourceRoot is the boundary between tooling directories and project sources.
const sourceRoot = "src/"

// NormalizePath rewrites backslashes to forward slashes, then replaces
// everything up to and including the first "src/" directory with "src/".
// Paths without a src directory are returned with only the slashes fixed.
// NormalizePath(NormalizePath(p)) == NormalizePath(p).
func NormalizePath(filename string) string {
	p := strings.ReplaceAll(filename, `\`, "/")
	if strings.HasPrefix(p, sourceRoot) {
		return p
	}
	if i := strings.Index(p, "/"+sourceRoot); i >= 0 {
		return sourceRoot + p[i+1+len(sourceRoot):]
	}
	return p
}
