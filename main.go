package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"gopkg.microglot.org/minilet.go/internal/config"
	"gopkg.microglot.org/minilet.go/internal/diag"
	"gopkg.microglot.org/minilet.go/internal/driver"
	"gopkg.microglot.org/minilet.go/internal/fs"
	"gopkg.microglot.org/minilet.go/internal/syntax"
	"gopkg.microglot.org/minilet.go/internal/target"
	"gopkg.microglot.org/minilet.go/internal/treedump"
)

var log = commonlog.GetLogger("minilet")

type opts struct {
	Config         string
	Roots          []string
	Recursive      bool
	Expression     bool
	DumpTree       string
	Output         string
	Color          string
	Verbosity      int
	Log            string
	ChunkSize      int
	MaxConcurrency int
	NonFatal       []string
	Watch          bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	op := &opts{}
	flags := pflag.NewFlagSet("minilet", pflag.ContinueOnError)
	flags.StringVar(&op.Config, "config", "", "Settings file. Defaults to "+config.DefaultFile+" when present.")
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root search paths for sources.")
	flags.BoolVarP(&op.Recursive, "recursive", "r", false, "Include sources of nested directories.")
	flags.BoolVar(&op.Expression, "expr", false, "Parse each source as a single expression.")
	flags.StringVar(&op.DumpTree, "dump-tree", "", "Output the parse tree as yaml or sexpr.")
	flags.StringVar(&op.Output, "output", "", "Directory for tree dumps. Defaults to STDOUT.")
	flags.StringVar(&op.Color, "color", config.ColorAuto, "Color diagnostics: auto, always or never.")
	flags.CountVarP(&op.Verbosity, "verbose", "v", "Increase log verbosity.")
	flags.StringVar(&op.Log, "log", "", "Write logs to this file instead of STDERR.")
	flags.IntVar(&op.ChunkSize, "chunk-size", 0, "Bytes read from a source at a time.")
	flags.IntVar(&op.MaxConcurrency, "max-concurrency", 0, "Sources parsed at once. Defaults to the number of CPUs.")
	flags.StringSliceVar(&op.NonFatal, "non-fatal", nil, "Exception codes reported as warnings.")
	flags.BoolVarP(&op.Watch, "watch", "w", false, "Parse again whenever a source changes.")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	targets := flags.Args()
	if len(targets) < 1 {
		targets = []string{target.Stdin}
	}

	cfg, err := settings(flags, op)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	var logPath *string
	if cfg.Log != "" {
		logPath = &cfg.Log
	}
	commonlog.Configure(cfg.Verbosity, logPath)

	r, err := newRunner(cfg, targets)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if op.Watch {
		if err := watch(ctx, r, cfg.Watch.Debounce.Duration); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		return
	}
	if !r.run(ctx) {
		os.Exit(1)
	}
}

// settings merges the settings file with the flags that were given.
func settings(flags *pflag.FlagSet, op *opts) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(op.Config)
	if err != nil {
		return nil, err
	}
	if flags.Changed("root") || len(cfg.Roots) < 1 {
		cfg.Roots = op.Roots
	}
	if flags.Changed("recursive") {
		cfg.Recursive = op.Recursive
	}
	if flags.Changed("expr") {
		cfg.Expression = op.Expression
	}
	if flags.Changed("dump-tree") {
		cfg.DumpTree = op.DumpTree
	}
	if flags.Changed("output") {
		cfg.Output = op.Output
	}
	if flags.Changed("color") {
		cfg.Color = op.Color
	}
	if flags.Changed("verbose") {
		cfg.Verbosity = op.Verbosity
	}
	if flags.Changed("log") {
		cfg.Log = op.Log
	}
	if flags.Changed("chunk-size") {
		cfg.ChunkSize = op.ChunkSize
	}
	if flags.Changed("max-concurrency") {
		cfg.MaxConcurrency = op.MaxConcurrency
	}
	cfg.NonFatal = append(cfg.NonFatal, op.NonFatal...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type runner struct {
	cfg      *config.Config
	targets  []string
	driver   *driver.Driver
	renderer *diag.Renderer
	stdout   io.Writer
	stderr   io.Writer
}

func newRunner(cfg *config.Config, targets []string) (*runner, error) {
	roots := append([]string{}, cfg.Roots...)
	roots = append(roots, driver.DefaultRoots(os.LookupEnv)...)
	rfs, err := driver.NewRootsFS(roots, fs.WithOptionRecursive(cfg.Recursive))
	if err != nil {
		return nil, err
	}
	d, err := driver.New(
		driver.OptionWithLookupEnv(os.LookupEnv),
		driver.OptionWithFS(rfs),
		driver.OptionWithChunkSize(cfg.ChunkSize),
		driver.OptionWithMaxConcurrency(cfg.MaxConcurrency),
		driver.OptionWithNonFatal(cfg.NonFatal),
	)
	if err != nil {
		return nil, err
	}
	return &runner{
		cfg:      cfg,
		targets:  targets,
		driver:   d,
		renderer: diag.NewRenderer(cfg.Color),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}, nil
}

// run parses every target once and reports whether all of them parsed
// without a fatal exception.
func (r *runner) run(ctx context.Context) bool {
	resp, err := r.driver.Parse(ctx, &driver.Request{
		Files:      r.targets,
		Expression: r.cfg.Expression,
	})
	if resp == nil {
		fmt.Fprintln(r.stderr, err.Error())
		return false
	}
	sources := make(map[string]string, len(resp.Results))
	for _, result := range resp.Results {
		sources[result.Path] = result.Source
		if result.Tree == nil || r.cfg.DumpTree == config.DumpNone {
			continue
		}
		if dumpErr := r.dump(ctx, result); dumpErr != nil {
			log.Errorf("could not dump %s: %s", result.Path, dumpErr)
			fmt.Fprintln(r.stderr, dumpErr.Error())
			return false
		}
	}
	level := diag.LevelWarning
	if err != nil {
		level = diag.LevelError
	}
	if writeErr := r.renderer.Write(r.stderr, level, resp.Reported, sources); writeErr != nil {
		log.Errorf("could not write diagnostics: %s", writeErr)
	}
	return err == nil
}

func (r *runner) dump(ctx context.Context, result *driver.Result) error {
	var text string
	ext := ".yaml"
	switch r.cfg.DumpTree {
	case config.DumpSexpr:
		text = syntax.Sexpr(result.Tree) + "\n"
		ext = ".sexpr"
	default:
		b, err := treedump.Marshal(result.Tree)
		if err != nil {
			return err
		}
		text = string(b)
	}
	if r.cfg.Output == "" {
		if len(r.targets) > 1 {
			text = fmt.Sprintf("# %s\n%s", result.Path, text)
		}
		_, err := io.WriteString(r.stdout, text)
		return err
	}
	out, err := fs.NewFileSystemLocal(r.cfg.Output)
	if err != nil {
		return err
	}
	name := "stdin"
	if !target.IsStdin(result.Path) {
		name = strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path))
	}
	return out.Write(ctx, name+ext, text)
}
