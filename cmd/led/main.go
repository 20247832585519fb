package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/led/internal/config"
	"github.com/xonecas/led/internal/editor"
	"github.com/xonecas/led/internal/shell"
	"github.com/xonecas/led/internal/store"
	"github.com/xonecas/led/internal/termsize"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-config file] <filename> [context_lines]\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Usage = usage
	flag.Parse()

	filename, ok := fileArg(flag.Args())
	if !ok {
		usage()
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg, filename); err != nil {
		log.Error().Err(err).Str("file", filename).Msg("exit")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// fileArg picks the file to edit from the positional arguments. A second
// argument (context_lines) is accepted for compatibility and ignored; the
// page size comes from the config or the `z` command.
func fileArg(args []string) (string, bool) {
	if len(args) < 1 || args[0] == "" {
		return "", false
	}
	return args[0], true
}

func run(cfg *config.Config, filename string) error {
	var st *store.Store
	if cfg.Store.Path != "" {
		if err := config.EnsureDir(cfg.Store.Path); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
		var err error
		st, err = store.Open(cfg.Store.Path, store.DefaultTTL)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	var sh *shell.Shell
	if cfg.Shell.Enabled {
		var err error
		sh, err = shell.New(filename, shell.BlockFuncsFor(cfg.Shell.Blocked))
		if err != nil {
			return err
		}
	}

	ed, err := editor.Open(filename, editor.Options{
		In:              os.Stdin,
		Out:             os.Stdout,
		Err:             os.Stderr,
		Size:            termsize.Provider(os.Stdout, os.Stdin),
		PageSize:        cfg.Editor.PageSizeOrDefault(),
		Store:           st,
		RestorePosition: cfg.Editor.RestorePosition,
		Shell:           sh,
	})
	if err != nil {
		return err
	}

	if err := ed.Run(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)
	return nil
}

// setupLogging points the global zerolog logger at the configured file.
// Without a file, logging is disabled so nothing interferes with the screen.
func setupLogging(cfg config.LogConfig) (func(), error) {
	if cfg.File == "" {
		log.Logger = zerolog.Nop()
		return func() {}, nil
	}
	if err := config.EnsureDir(cfg.File); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(f).Level(cfg.LevelOrDefault()).With().Timestamp().Logger()
	return func() { f.Close() }, nil
}
