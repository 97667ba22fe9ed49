package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grahambrooks/astgen/internal/adapters/bolt"
	"github.com/grahambrooks/astgen/internal/adapters/fsnotify"
	"github.com/grahambrooks/astgen/internal/adapters/treesitter"
	"github.com/grahambrooks/astgen/internal/encode"
	"github.com/grahambrooks/astgen/internal/pipeline"
	"github.com/grahambrooks/astgen/internal/ports"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-parse files as they change",
	Long: "Watches a directory tree and emits a fresh AST record to stdout each\n" +
		"time a supported source file is created or modified. Records use the\n" +
		"same format and filtering as a batch run.",
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	root := cfg.Roots[0]

	parser := treesitter.NewParser()
	filter := pipeline.NewFilter(cfg, nil, parser)
	enc, err := encode.For(cfg.Format)
	if err != nil {
		return err
	}

	var cache ports.Cache
	if cfg.CachePath != "" {
		c, err := bolt.Open(cfg.CachePath)
		if err != nil {
			return fmt.Errorf("cannot open cache: %w", err)
		}
		defer c.Close()
		cache = c
	}

	// One-file pool per event: same parse path as a batch run, cache included.
	pool := &pipeline.Pool{Workers: 1, Parser: parser, Cache: cache}

	w, err := fsnotify.NewWatcher(parser.DetectLanguage)
	if err != nil {
		return err
	}
	defer w.Stop()

	err = w.Watch(root, func(path string) {
		info, statErr := os.Stat(path)
		if statErr != nil {
			return // deleted or unreadable; nothing to emit
		}
		rel := path
		if r, relErr := filepath.Rel(root, path); relErr == nil {
			rel = filepath.ToSlash(r)
		}
		language, decision := filter.AcceptPath(rel, info.Size())
		if decision != pipeline.Accept {
			if cfg.Verbose {
				fmt.Fprintf(os.Stderr, "astgen: skipped (%s): %s\n", decision, path)
			}
			return
		}

		candidate := pipeline.Candidate{Path: path, Language: language, Size: info.Size()}
		for outcome := range pool.Run([]pipeline.Candidate{candidate}) {
			unit, encErr := enc.Encode(outcome.Record)
			if encErr != nil {
				fmt.Fprintf(os.Stderr, "astgen: %v\n", encErr)
				continue
			}
			os.Stdout.Write(unit)
		}
	})
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "astgen: watching %s\n", root)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
