package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stackb/cjs/pkg/folder"
)

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Require a file and print its exports",
		Long: `Require ./<file> from the file's own folder through a synthetic main
module and print the resulting exports: JSON for JavaScript, Starlark source
for Starlark.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			dir, err := folder.NewOSFolder(filepath.Dir(abs))
			if err != nil {
				return err
			}
			s, err := a.newSession(dir)
			if err != nil {
				return err
			}
			out, err := s.Require("./" + filepath.Base(abs))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}
