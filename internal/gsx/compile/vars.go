package compile

import (
	goast "go/ast"
	gotoken "go/token"
	"go/types"
	"strings"
)

// collectVarTypes records the declared type of every parameter, result and
// variable in the file whose type matters to lowering. Scopes are flattened:
// the last declaration of a name wins.
func collectVarTypes(file *goast.File) map[string]string {
	out := map[string]string{}
	addFields := func(fl *goast.FieldList) {
		if fl == nil {
			return
		}
		for _, f := range fl.List {
			typ, ok := loweringType(f.Type)
			if !ok {
				continue
			}
			for _, n := range f.Names {
				out[n.Name] = typ
			}
		}
	}

	goast.Inspect(file, func(n goast.Node) bool {
		switch n := n.(type) {
		case *goast.FuncType:
			addFields(n.Params)
			addFields(n.Results)
		case *goast.ValueSpec:
			if n.Type != nil {
				if typ, ok := loweringType(n.Type); ok {
					for _, id := range n.Names {
						out[id.Name] = typ
					}
				}
				return true
			}
			for i, v := range n.Values {
				if i < len(n.Names) {
					if typ, ok := valueType(v); ok {
						out[n.Names[i].Name] = typ
					}
				}
			}
		case *goast.AssignStmt:
			if n.Tok != gotoken.DEFINE || len(n.Lhs) != len(n.Rhs) {
				return true
			}
			for i, l := range n.Lhs {
				id, ok := l.(*goast.Ident)
				if !ok {
					continue
				}
				if typ, ok := valueType(n.Rhs[i]); ok {
					out[id.Name] = typ
				}
			}
		}
		return true
	})
	return out
}

// loweringType maps a type expression to "string", "[]string", "Node" or
// "[]Node". Node may be package qualified (g.Node).
func loweringType(ex goast.Expr) (string, bool) {
	s := types.ExprString(ex)
	slice := strings.HasPrefix(s, "[]")
	base := strings.TrimPrefix(s, "[]")
	if i := strings.LastIndexByte(base, '.'); i >= 0 && base[i+1:] == "Node" {
		base = "Node"
	}
	if base != "string" && base != "Node" {
		return "", false
	}
	if slice {
		return "[]" + base, true
	}
	return base, true
}

func valueType(ex goast.Expr) (string, bool) {
	switch v := ex.(type) {
	case *goast.BasicLit:
		if v.Kind == gotoken.STRING {
			return "string", true
		}
	case *goast.CompositeLit:
		if v.Type != nil {
			return loweringType(v.Type)
		}
	}
	return "", false
}

// coreNames are the maragu.dev/gomponents identifiers a .gsx file commonly
// uses without qualification.
var coreNames = map[string]bool{
	"Node":       true,
	"NodeType":   true,
	"Group":      true,
	"Text":       true,
	"Textf":      true,
	"Raw":        true,
	"Rawf":       true,
	"El":         true,
	"Attr":       true,
	"If":         true,
	"Iff":        true,
	"Map":        true,
	"NodeFunc":   true,
	"Components": true,
}

// usesCore reports whether the file refers to an undeclared gomponents name.
func usesCore(file *goast.File) bool {
	for _, id := range file.Unresolved {
		if coreNames[id.Name] {
			return true
		}
	}
	return false
}
