package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/config"
	"github.com/abhisek/careerquest/internal/logger"
	"github.com/abhisek/careerquest/internal/progression"
	"github.com/abhisek/careerquest/internal/store"
)

// env is what every command works against.
type env struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *store.Store
	catalog *catalog.Catalog
	svc     *progression.Service
	userID  string
}

// openEnv loads config, then builds the logger, store, catalog and
// orchestrator. tui keeps logs off the terminal: they go to the configured
// log file, or nowhere.
func openEnv(cmd *cobra.Command, tui bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	mode, out := cfg.Log.Mode, cfg.Log.File
	if tui && out == "" {
		mode = logger.ModeQuiet
	}
	log, err := logger.New(mode, logger.Options{Level: cfg.Log.Level, OutputPath: out, HashSalt: cfg.Log.Salt})
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	svc := progression.NewService(progression.NewStoreGateway(st, cat), progression.Options{
		Logger: log,
		Events: st.Events(),
	})

	e := &env{cfg: cfg, log: log, store: st, catalog: cat, svc: svc, userID: cfg.ResolveUserID()}
	log.Debug("environment ready", "db", dbPath, "catalog", cat.Version(), "user_id", e.userID)
	return e, nil
}

// Close waits for in-flight recordings before closing the store.
func (e *env) Close() {
	e.svc.Wait()
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store", "error", err)
	}
	e.log.Sync()
}

// loadConfig reads the config file and applies the global flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	optional := path == ""
	if optional {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.UserID = v
	}
	if v, _ := cmd.Flags().GetString("log-mode"); v != "" {
		cfg.Log.Mode = v
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path (flag, env or config
// file), then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
