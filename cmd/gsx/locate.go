package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianc/gsxloc/pkg/gsx/locate"
)

const maxTextLen = 60

func newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <file.html|-> [selector]",
		Short: "Print the .gsx source location of rendered HTML elements",
		Long: `Reads HTML rendered from code generated with --inject-source and prints,
for each element matching selector (every instrumented element by default),
its source location, tag and text.

Elements without location attributes resolve to their closest instrumented
ancestor.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			selector := ""
			if len(args) == 2 {
				selector = args[1]
			}
			els, err := locate.FromHTML(r, selector)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, el := range els {
				if _, err := fmt.Fprintf(out, "%s\t<%s>\t%s\n", el.Location, el.Tag, truncate(el.Text, maxTextLen)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
