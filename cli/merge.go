package cli

import (
	"fmt"
	"log/slog"

	"github.com/CodMac/go-treesitter-impl-merger/config"
	"github.com/CodMac/go-treesitter-impl-merger/model"
	"github.com/CodMac/go-treesitter-impl-merger/output"
	"github.com/CodMac/go-treesitter-impl-merger/processor"
	"github.com/CodMac/go-treesitter-impl-merger/store"
	"github.com/spf13/cobra"
)

type mergeOptions struct {
	line   int
	dryRun bool
	report string
	quiet  bool
}

func newMergeCommand(root *rootOptions) *cobra.Command {
	opts := &mergeOptions{}

	cmd := &cobra.Command{
		Use:   "merge <file-or-directory>",
		Short: "Merge implementation classes into their interfaces",
		Long: `Merge a single implementation class file, or every *Impl.java file under a directory.

In single-file mode --line selects the top-level class enclosing that line.
Files are processed one at a time; a file that cannot be merged is reported
and the batch continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			return runMerge(cmd, root, opts, cfg, logger, processor.Selection{Path: args[0], Line: opts.line})
		},
	}

	cmd.Flags().IntVar(&opts.line, "line", 0, "caret line (1-based) selecting the class in single-file mode")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print a diff instead of writing files")
	cmd.Flags().StringVar(&opts.report, "report", "", "write one JSON line per processed file to this path")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the summary")
	return cmd
}

func runMerge(cmd *cobra.Command, root *rootOptions, opts *mergeOptions, cfg *config.Config, logger *slog.Logger, sel processor.Selection) error {
	st, err := newStore(cfg, sel.Path, logger)
	if err != nil {
		return err
	}

	fp, err := processor.NewFileProcessor(model.LangJava, cfg, st, logger)
	if err != nil {
		return err
	}
	defer fp.Close()
	fp.DryRun = opts.dryRun

	batch, err := fp.Process(cmd.Context(), sel)
	if err != nil {
		return err
	}
	if len(batch.Files) == 0 {
		fmt.Fprintln(root.stdout, "No implementation classes found.")
		return nil
	}

	if opts.dryRun {
		for _, fr := range batch.Files {
			if fr.Diff != "" {
				fmt.Fprint(root.stdout, fr.Diff)
			}
		}
	}
	if opts.report != "" {
		if _, err := output.ExportReports(opts.report, batch); err != nil {
			return fmt.Errorf("failed to write report %s: %w", opts.report, err)
		}
	}
	if !opts.quiet {
		fmt.Fprintln(root.stdout, output.Summary(batch, output.DefaultSummaryStyles()))
	}

	if n := batch.Count(model.StatusFailed); n > 0 {
		return fmt.Errorf("%d file(s) failed", n)
	}
	return nil
}

func newStore(cfg *config.Config, path string, logger *slog.Logger) (store.Store, error) {
	if !cfg.Git {
		return store.NewOSStore(), nil
	}
	gs, err := store.OpenGitStore(path, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("using git store", "root", gs.Root())
	return gs, nil
}
