package main

import (
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/kilianc/gsxloc/internal/gsx/ast"
	"github.com/kilianc/gsxloc/internal/gsx/inject"
	"github.com/kilianc/gsxloc/internal/gsx/parse"
)

var astDumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func newASTCmd() *cobra.Command {
	var injectSource bool
	cmd := &cobra.Command{
		Use:   "ast <file.gsx>",
		Short: "Dump the markup tree parsed from a .gsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := parse.ParseFile(args[0], src)
			if err != nil {
				return err
			}
			if injectSource {
				name := moduleSourceName(args[0])
				ast.Walk(f.Roots(), func(el *ast.Element, parent ast.Node) {
					inject.Element(el, parent, name)
				})
			}
			for _, r := range f.Regions {
				astDumper.Fprintf(cmd.OutOrStdout(), "%s ", r.Placeholder)
				astDumper.Fdump(cmd.OutOrStdout(), r.Root)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&injectSource, "inject-source", false, "show the tree after source locations are injected")
	return cmd
}

// moduleSourceName names pth the way generate does: relative to the
// enclosing module root when there is one.
func moduleSourceName(pth string) string {
	abs, err := filepath.Abs(pth)
	if err != nil {
		return filepath.ToSlash(pth)
	}
	root, err := findModuleRoot(filepath.Dir(abs))
	if err != nil {
		return filepath.ToSlash(pth)
	}
	return (&generator{moduleRoot: root}).sourceName(abs)
}
