package ast

// Visitor is called once per element. parent is the enclosing element, or nil
// for a root element. parent is only valid for the duration of the call.
type Visitor func(el *Element, parent Node)

// Walk visits every element reachable from nodes in document order, calling
// fn on an element before any of its children.
func Walk(nodes []Node, fn Visitor) {
	for _, n := range nodes {
		walk(n, nil, fn)
	}
}

func walk(n Node, parent Node, fn Visitor) {
	el, ok := n.(*Element)
	if !ok {
		return
	}
	fn(el, parent)
	for _, c := range el.Children {
		walk(c, el, fn)
	}
}
