package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hivescan/internal/config"
	"hivescan/internal/hive"
	"hivescan/internal/logging"
	"hivescan/internal/registry"
	boltstore "hivescan/internal/store/bolt"
	"hivescan/internal/winreg"
)

var logger = logging.For("cli")

const usage = `usage: hivescan [flags] <command> [args]

commands:
  list   ROOT\path                    print every value under the key
  digest ROOT\path                    print a BLAKE2b digest of the key's values
  set    ROOT\path name TYPE value... write a value (bolt backend)
  unset  ROOT\path name               delete a value (bolt backend)
  mkkey  ROOT\path                    create a key (bolt backend)
  rmkey  ROOT\path                    delete a key (bolt backend)
  info                                show the backend in use

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// env is what every command needs once flags and config are resolved.
type env struct {
	cfg      *config.Config
	enum     *registry.Enumerator
	resolver registry.Resolver
	hive     *hive.Hive
	out      io.Writer
	json     bool
	tty      bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hivescan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "path to config file")
	hivePath := fs.String("hive", "", "bolt hive path (overrides config)")
	backend := fs.String("backend", "", "bolt or windows (overrides config)")
	logLevel := fs.String("log-level", "", "log level (overrides config)")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	// CLI flags override config file values
	if *hivePath != "" {
		cfg.Hive.Path = *hivePath
	}
	if *backend != "" {
		cfg.Hive.Backend = *backend
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	logging.InitTo(stderr, cfg.Log.Level, cfg.Log.Format)

	e := &env{
		cfg:  cfg,
		out:  stdout,
		json: *asJSON,
		tty:  isTerminal(stdout),
	}
	opts := cfg.EnumeratorOptions()
	if cfg.Enumeration.ReportSkips {
		opts.OnSkip = func(s registry.Skip) {
			logger.Warn("skipped value", "index", s.Index, "err", s.Err)
		}
	}
	e.enum = registry.NewWithOptions(opts)

	closeBackend, err := e.openBackend()
	if err != nil {
		fmt.Fprintf(stderr, "backend: %v\n", err)
		return 1
	}
	defer closeBackend()

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", fs.Arg(0))
		fs.Usage()
		return 2
	}
	if err := cmd(e, fs.Args()[1:]); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", fs.Arg(0), err)
		return 1
	}
	return 0
}

func (e *env) openBackend() (func(), error) {
	if e.cfg.Hive.Backend == config.BackendWindows {
		e.resolver = winreg.New()
		return func() {}, nil
	}

	path := config.ExpandHome(e.cfg.Hive.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating hive dir: %w", err)
	}
	st, err := boltstore.Open(path)
	if err != nil {
		return nil, err
	}
	h, err := hive.Open(st)
	if err != nil {
		st.Close()
		return nil, err
	}
	logger.Debug("opened hive", "path", path, "id", h.ID())
	e.hive, e.resolver = h, h
	return func() {
		if err := st.Close(); err != nil {
			logger.Error("closing hive", "err", err)
		}
	}, nil
}
