package ast

type Node interface {
	node()
}

// Position is a location in a .gsx source. Line is 1-based, Column is a
// 0-based offset into the line counted in UTF-16 code units. A zero Line
// means the position is unknown.
type Position struct {
	Line   int
	Column int
}

func (p Position) IsValid() bool { return p.Line > 0 }

type Span struct {
	Start Position
	End   Position
}

type Text struct {
	Value string
}

func (Text) node() {}

type Expr struct {
	Src  string
	Span Span
}

func (Expr) node() {}

type AttrKind int

const (
	AttrBool AttrKind = iota
	AttrString
	AttrExpr
	// AttrSpread is a bare `{expr}` in a start tag yielding attribute nodes.
	AttrSpread
)

type Attr struct {
	Key  string
	Kind AttrKind
	// Value is the literal string (for AttrString) or expression source (for AttrExpr and AttrSpread).
	Value string
	Span  Span
}

// TagName is one of Ident, Member or Namespaced.
type TagName interface {
	tagName()
	String() string
}

// Ident is a plain tag name: div, my-widget, Button.
type Ident struct {
	Name string
}

func (Ident) tagName()         {}
func (n Ident) String() string { return n.Name }

// Member is a dotted tag name: Form.Item. Object may itself be dotted (ui.Form).
type Member struct {
	Object   string
	Property string
}

func (Member) tagName()         {}
func (n Member) String() string { return n.Object + "." + n.Property }

// Namespaced is an XML-style tag name: svg:rect.
type Namespaced struct {
	Namespace string
	Name      string
}

func (Namespaced) tagName()         {}
func (n Namespaced) String() string { return n.Namespace + ":" + n.Name }

type Element struct {
	Name        TagName
	Attrs       []Attr
	Children    []Node
	SelfClosing bool
	// HasContent is set when anything, whitespace and {/* comments */}
	// included, appears between the start and close tags. Children drops
	// both, so it can be empty while HasContent is true.
	HasContent bool
	Span       Span
}

func (*Element) node() {}

// HasAttr reports whether el already carries an attribute named key.
func (el *Element) HasAttr(key string) bool {
	_, ok := el.Attr(key)
	return ok
}

// Attr returns the first non-spread attribute named key.
func (el *Element) Attr(key string) (Attr, bool) {
	for _, a := range el.Attrs {
		if a.Kind != AttrSpread && a.Key == key {
			return a, true
		}
	}
	return Attr{}, false
}
