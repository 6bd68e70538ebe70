package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bastiangx/tileserve/internal/utils"
	"github.com/bastiangx/tileserve/pkg/config"
	"github.com/bastiangx/tileserve/pkg/dictionary"
	"github.com/bastiangx/tileserve/pkg/search"
	"github.com/bastiangx/tileserve/pkg/server"
	"github.com/bastiangx/tileserve/pkg/store"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	AppName = "tileserve"

	loadBackoff = 500 * time.Millisecond
)

var rootCmd = &cobra.Command{
	Use:           AppName,
	Short:         "Spanish Scrabble lexicon queries over MessagePack IPC",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config.toml")
	rootCmd.PersistentFlags().String("data", "", "directory with word lists (overrides dict.dir)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")
}

// app holds what every command needs after flags and config are resolved.
type app struct {
	cfg     *config.Config
	cfgPath string
	paths   *utils.PathResolver
}

// setup applies the log level, resolves paths and loads the config.
func setup(cmd *cobra.Command) (*app, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		log.SetDefault(newDebugLogger())
	} else {
		log.SetLevel(log.WarnLevel)
	}

	paths, err := utils.NewPathResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path resolver: %w", err)
	}

	customPath, _ := cmd.Flags().GetString("config")
	cfg, cfgPath, err := config.LoadWithPriority(customPath, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dir, _ := cmd.Flags().GetString("data"); dir != "" {
		cfg.Dict.Dir = dir
	}

	cfg.Dict.Dir = paths.Resolve(cfg.Dict.Dir)
	cfg.Dict.Snapshot = paths.Resolve(cfg.Dict.Snapshot)
	cfg.Dict.FallbackDB = paths.Resolve(cfg.Dict.FallbackDB)
	log.Debugf("Using config file: (%s)", utils.AbsolutePath(cfgPath))
	log.Debugf("Using data dir at: %s", cfg.Dict.Dir)
	return &app{cfg: cfg, cfgPath: cfgPath, paths: paths}, nil
}

func (a *app) searchOptions() search.Options {
	s := a.cfg.Search
	return search.Options{
		MinSubsetLength: s.MinSubsetLength,
		MaxBlanks:       s.MaxBlanks,
		MaxRack:         s.MaxRack,
		CacheSize:       s.CacheSize,
		Suggestions:     s.Suggestions,
	}
}

// start begins loading the lexicon in the background and opens the fallback store
// when its database exists. The returned func releases the store.
func (a *app) start(ctx context.Context) (*search.Engine, *dictionary.Provider, func()) {
	if !utils.HasWordLists(a.cfg.Dict.Dir) && !utils.FileExists(a.cfg.Dict.Snapshot) {
		log.Warnf("No word lists in %s and no snapshot at %s", a.cfg.Dict.Dir, a.cfg.Dict.Snapshot)
	}

	loader := dictionary.NewLoader(a.cfg.Dict.MaxWordsValidation)
	provider := dictionary.NewProvider(
		dictionary.FromDisk(loader, a.cfg.Dict.Dir, a.cfg.Dict.Snapshot),
		a.cfg.Dict.LoadRetries,
		loadBackoff,
	)
	provider.Start(ctx)

	var fallback search.Fallback
	release := func() {}
	if db := a.cfg.Dict.FallbackDB; db != "" && utils.FileExists(db) {
		st, err := store.Open(ctx, db)
		if err != nil {
			log.Warnf("Fallback store unavailable: %v", err)
		} else {
			fallback = st
			release = func() { st.Close() }
			log.Debugf("Fallback store opened at %s", db)
		}
	}
	return search.NewEngine(provider, fallback, a.searchOptions()), provider, release
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	engine, provider, release := a.start(ctx)
	defer release()

	srv := server.NewStdio(engine, provider, server.Options{
		MaxLimit:       a.cfg.Server.MaxLimit,
		MaxQueryLength: a.cfg.Server.MaxQueryLength,
	})
	showStartupInfo(a.cfg.Dict.Dir)

	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dataDir string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " TileServe ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("data dir: ( %s )", dataDir)
	log.Info("status: loading lexicon")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")
}
