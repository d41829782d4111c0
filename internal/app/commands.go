package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/bethropolis/filekit"
	"github.com/bethropolis/filekit/internal/pattern"
	"github.com/bethropolis/filekit/internal/setup"
	"github.com/bethropolis/filekit/internal/summary"
	"github.com/spf13/cobra"
)

func (a *App) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls [dir]",
		Aliases: []string{"readdir"},
		Short:   "List a directory",
		Long: `List the entries of a directory. With --recursive only leaves are
reported unless --leaves-only=false is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return a.list(root, "")
		},
	}
}

func (a *App) newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <dir> <ext-or-pattern>",
		Short: "List entries matching an extension",
		Long: `Search lists entries under dir whose path matches an extension such
as "js". A match starting with "." such as ".env" is used as a pattern
verbatim. Any --filter is replaced by the search pattern.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(args[0], args[1])
		},
	}
}

func (a *App) list(root, match string) error {
	startTime := time.Now()
	ctx := a.ctx

	wc := setup.FromConfig(a.cfg, root, a.client.FS(), a.log)
	_, opts, err := setup.ConfigureWalker(ctx, wc, a.infoLog)
	if err != nil {
		return err
	}

	var entries []filekit.Entry
	switch {
	case match != "" && a.promises != nil:
		entries, err = a.promises.Search(ctx, root, match, opts...).Await(ctx)
	case match != "":
		entries, err = a.client.Search(ctx, root, match, opts...)
	case a.promises != nil:
		entries, err = a.promises.Readdir(ctx, root, opts...).Await(ctx)
	default:
		entries, err = a.client.Readdir(ctx, root, opts...)
	}
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", root, err)
	}

	p := a.printer()
	p.PrintEntries(entries)
	p.Finalize()

	summary.DisplayResults(a.log, p.GetCount(), time.Since(startTime), a.cfg.Quiet)
	return nil
}

func (a *App) newCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cp <source> <dest>",
		Short: "Copy a file or directory",
		Long: `Copy source to dest. A dest ending in "/" names a directory to copy
into; a source ending in "/" copies its contents. Ignore and filter rules apply
to paths relative to source.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime := time.Now()
			ctx := a.ctx
			source, dest := args[0], args[1]

			wc := setup.FromConfig(a.cfg, source, a.client.FS(), a.log)
			rules, err := setup.BuildRules(ctx, wc, a.infoLog)
			if err != nil {
				return err
			}

			var report filekit.Report
			if a.promises != nil {
				report, err = a.promises.Copy(ctx, source, dest, rules.CopyOptions()...).Await(ctx)
			} else {
				report, err = a.client.Copy(ctx, source, dest, rules.CopyOptions()...)
			}
			if err != nil {
				return err
			}
			summary.DisplayCopy(a.log, report, time.Since(startTime), a.Output, a.cfg.Quiet)
			return nil
		},
	}
}

func (a *App) newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>...",
		Short: "Remove files or directories recursively",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := a.client.Remove(a.ctx, path); err != nil {
					return fmt.Errorf("failed to remove %s: %w", path, err)
				}
				a.log.Debug("Removed %s", path)
			}
			return nil
		},
	}
}

func (a *App) newMkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>...",
		Short: "Create directories and missing parents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := a.client.Mkdir(a.ctx, path); err != nil {
					return fmt.Errorf("failed to create %s: %w", path, err)
				}
			}
			return nil
		},
	}
}

func (a *App) newCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <file>...",
		Short: "Print file contents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				data, err := a.client.Read(a.ctx, path)
				if err != nil {
					return err
				}
				if _, err := a.Output.Write(data); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *App) newGitignoreCommand() *cobra.Command {
	var compile bool
	cmd := &cobra.Command{
		Use:   "gitignore <file>",
		Short: "Print the rules of a .gitignore file",
		Long: `Print the rules of a .gitignore-formatted file, without blank lines
and comments. With --compile each rule is followed by the regular expression
it compiles to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := a.client.ParseGitignore(a.ctx, args[0])
			if err != nil {
				return err
			}
			p := a.printer()
			for _, rule := range rules {
				if !compile {
					p.PrintLine(rule)
					continue
				}
				source := pattern.Source(rule)
				if source == "" {
					source = "(unsupported)"
				}
				p.PrintLine(rule + "\t" + source)
			}
			p.Finalize()
			return nil
		},
	}
	cmd.Flags().BoolVar(&compile, "compile", false, "Show the compiled expression of each rule")
	return cmd
}

func (a *App) newStatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>...",
		Short: "Classify paths",
		Long: `Print whether each argument is a directory, a file or a symbolic
link. Arguments that only look like paths are reported as "path"; anything
else as "none".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.printer()
			for _, path := range args {
				p.PrintLine(path + "\t" + a.classify(path))
			}
			p.Finalize()
			return nil
		},
	}
}

func (a *App) classify(path string) string {
	var kinds []string
	if a.client.IsSymbolicLink(a.ctx, path) {
		kinds = append(kinds, "symlink")
	}
	switch {
	case a.client.IsDirectory(a.ctx, path):
		kinds = append(kinds, "directory")
	case a.client.IsFile(a.ctx, path):
		kinds = append(kinds, "file")
	}
	if len(kinds) > 0 {
		return strings.Join(kinds, ",")
	}
	if filekit.IsPath(path) {
		return "path"
	}
	return "none"
}
