package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grahambrooks/astgen/internal/adapters/bolt"
	"github.com/grahambrooks/astgen/internal/adapters/treesitter"
	"github.com/grahambrooks/astgen/internal/config"
	"github.com/grahambrooks/astgen/internal/pipeline"
	"github.com/grahambrooks/astgen/internal/ports"
)

var (
	flagFormat      string
	flagIncludes    []string
	flagExcludes    []string
	flagOutput      string
	flagTruncate    int64
	flagParallel    int
	flagMaxFileSize int
	flagProgress    bool
	flagVerbose     bool
	flagDryRun      bool
	flagQuiet       bool
	flagConfig      string
	flagFollowLinks bool
	flagMaxDepth    int
	flagCache       string
	flagListLangs   bool
)

var rootCmd = &cobra.Command{
	Use:   "astgen [paths...]",
	Short: "astgen — source trees in, AST records out",
	Long: "Walks the given paths, parses every supported source file with a\n" +
		"tree-sitter grammar, and writes one AST record per file to the output,\n" +
		"in discovery order regardless of parallelism.",
	Args:         cobra.ArbitraryArgs,
	RunE:         runRoot,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagFormat, "format", "f", "", "Output format: json, pretty-json, or yaml")
	pf.StringArrayVarP(&flagIncludes, "include", "i", nil, "Only process paths matching this glob (repeatable)")
	pf.StringArrayVarP(&flagExcludes, "exclude", "e", nil, "Skip paths matching this glob (repeatable, wins over --include)")
	pf.StringVarP(&flagOutput, "output", "o", "", "Write records to a file instead of stdout")
	pf.Int64Var(&flagTruncate, "truncate", 0, "Stop emitting once output would exceed this many bytes (0 = unlimited)")
	pf.IntVarP(&flagParallel, "parallel", "p", 0, "Number of parse workers (default: CPU count, max 64)")
	pf.IntVar(&flagMaxFileSize, "max-file-size", 0, "Skip files larger than this many MB")
	pf.BoolVar(&flagProgress, "progress", false, "Render a progress counter on stderr")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Report skipped files and a run summary on stderr")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress all diagnostics")
	pf.StringVar(&flagConfig, "config", "", "Config file (default: "+config.DefaultFileName+" in cwd or home)")
	pf.BoolVar(&flagFollowLinks, "follow-links", false, "Follow symbolic links to regular files")
	pf.IntVar(&flagMaxDepth, "max-depth", 0, "Maximum directory depth to descend")
	pf.StringVar(&flagCache, "cache", "", "Reuse parse results across runs via this cache file")

	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "List what would be parsed without parsing")
	rootCmd.Flags().BoolVar(&flagListLangs, "list-languages", false, "Show supported languages and exit")
}

// resolveConfig builds the run configuration: defaults, then the config file,
// then any flag the user actually set. Flags always win over the file.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()

	path := flagConfig
	if path == "" {
		path = config.FindDefault()
	}
	if path != "" {
		file, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Apply(file)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = flagFormat
	}
	if flags.Changed("include") {
		cfg.Includes = flagIncludes
	}
	if flags.Changed("exclude") {
		cfg.Excludes = flagExcludes
	}
	if flags.Changed("output") {
		cfg.OutputPath = flagOutput
	}
	if flags.Changed("truncate") {
		cfg.Truncate = flagTruncate
	}
	if flags.Changed("parallel") {
		cfg.Parallel = flagParallel
	}
	if flags.Changed("max-file-size") {
		cfg.MaxFileSizeMB = flagMaxFileSize
	}
	if flags.Changed("follow-links") {
		cfg.FollowLinks = flagFollowLinks
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = flagMaxDepth
	}
	cfg.CachePath = flagCache
	cfg.Progress = flagProgress
	cfg.Verbose = flagVerbose
	cfg.Quiet = flagQuiet
	cfg.DryRun = flagDryRun

	cfg.Roots = args
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"."}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	parser := treesitter.NewParser()

	if flagListLangs {
		printLanguages(cmd.OutOrStdout(), parser.Languages(), isStdoutTTY())
		return nil
	}

	cfg, err := resolveConfig(cmd, args)
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

	p := &pipeline.Pipeline{
		Config: cfg,
		Parser: parser,
		Cache:  cache,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	summary, err := p.Run()
	if err != nil {
		return err
	}

	if summary.Truncated && !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "astgen: output truncated at %d bytes\n", cfg.Truncate)
	}
	return nil
}
