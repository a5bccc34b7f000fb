package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/stackb/cjs/pkg/config"
	"github.com/stackb/cjs/pkg/folder"
	"github.com/stackb/cjs/pkg/require"
	"github.com/stackb/cjs/pkg/starlarkengine"
)

func newGraphCommand(a *app) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "graph <dir>",
		Short: "Load every entry under a directory and print the module tree",
		Long: `Require every file under <dir> matching --glob (files inside the modules
directory are skipped) from one shared loader, print each entry's tree of
children, then list every cached path under <dir>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.graph(cmd.OutOrStdout(), args[0], pattern)
		},
	}
	cmd.Flags().StringVar(&pattern, "glob", "", "doublestar pattern selecting entries, relative to <dir> (default **/*<script extension>)")
	return cmd
}

func (a *app) graph(out io.Writer, dir, pattern string) error {
	root, err := folder.NewOSFolder(dir)
	if err != nil {
		return err
	}
	s, err := a.newSession(root)
	if err != nil {
		return err
	}
	if pattern == "" {
		pattern = "**/*" + a.scriptExtension()
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("glob %q: %w", pattern, err)
	}
	sort.Strings(matches)

	var failed int
	for _, match := range matches {
		if inModulesDir(match, a.cfg.ModulesDir) {
			continue
		}
		if _, err := s.Require("./" + match); err != nil {
			failed++
			fmt.Fprintf(out, "ERROR %s: %v\n", match, err)
		}
	}

	prefix := root.Path()
	rel := func(id string) string {
		return strings.TrimPrefix(strings.TrimPrefix(id, prefix), "/")
	}

	seen := make(map[*require.Module]bool)
	for _, entry := range s.Main().Children() {
		printTree(out, entry, 0, seen, rel)
	}

	fmt.Fprintln(out, "cache:")
	if err := s.Loader().Cache().Walk(prefix, func(path string, m *require.Module) error {
		_, err := fmt.Fprintf(out, "  %s -> %s\n", rel(path), rel(m.ID()))
		return err
	}); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d entries failed to load", failed, len(matches))
	}
	return nil
}

// printTree writes m and its children, indented by depth. A module already
// printed is marked and not expanded again.
func printTree(out io.Writer, m *require.Module, depth int, seen map[*require.Module]bool, rel func(string) string) {
	state := "loaded"
	if !m.Loaded() {
		state = "loading"
	}
	if seen[m] {
		fmt.Fprintf(out, "%s%s (%s, seen)\n", strings.Repeat("  ", depth), rel(m.ID()), state)
		return
	}
	seen[m] = true
	fmt.Fprintf(out, "%s%s (%s)\n", strings.Repeat("  ", depth), rel(m.ID()), state)
	for _, child := range m.Children() {
		printTree(out, child, depth+1, seen, rel)
	}
}

func inModulesDir(match, modulesDir string) bool {
	for _, part := range strings.Split(match, "/") {
		if part == modulesDir {
			return true
		}
	}
	return false
}

func (a *app) scriptExtension() string {
	if a.cfg.ScriptExtension != "" {
		return a.cfg.ScriptExtension
	}
	if a.cfg.Engine == config.EngineStarlark {
		return starlarkengine.DefaultScriptExtension
	}
	return require.DefaultScriptExtension
}
