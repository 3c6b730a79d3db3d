package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"hrgraph/internal/app"
	"hrgraph/internal/config"
	"hrgraph/internal/mapping"
	"hrgraph/internal/schema"
	"hrgraph/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:           "hrgraph",
		Short:         "Offline HR relationship network explorer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			appConfig = cfg
			return initLogger(cfg.Log.Level)
		},
	}

	log       *zap.SugaredLogger
	appConfig *config.Config

	// Command line flags
	dbPath     string
	configPath string
	nodesPath  string
	edgesPath  string
	filePath   string
	debug      bool
	assumeYes  bool
)

func main() {
	defer func() {
		if log != nil {
			_ = log.Sync()
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, app.ErrUserCancelledMapping) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", config.DefaultDBPath, "Path to the local graph database (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&nodesPath, "nodes", "", "Node file (.csv or .xlsx) to load before running the command")
	rootCmd.PersistentFlags().StringVar(&edgesPath, "edges", "", "Edge file (.csv or .xlsx) to load after the nodes")
	rootCmd.PersistentFlags().StringVarP(&filePath, "file", "f", "", "Workbook or CSV holding nodes, edges or both")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable development logging")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Confirm showing sensitive relations")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(spouseCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func initLogger(level string) error {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		if level != "" {
			if cfg.Level, err = zap.ParseAtomicLevel(level); err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	log = logger.Sugar()
	return nil
}

// session is an opened store plus the state built on top of it.
type session struct {
	cfg   *config.Config
	store *storage.SQLiteStore
	state *app.State
}

func (s *session) Close() error {
	return s.store.Close()
}

// openSession loads configuration, opens the store, restores saved settings
// and either loads the files named by flags or restores the stored graph.
func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg := appConfig
	db := cfg.Storage.DB
	if cmd.Flags().Changed("db") {
		db = dbPath
	}
	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	state := app.New(app.Options{
		Logger: log.Desugar(),
		Confirmer: app.AutoConfirmer{
			Overrides: map[schema.Kind]mapping.Mapping{
				schema.KindNodes: mapping.Mapping(cfg.Mapping.Nodes),
				schema.KindEdges: mapping.Mapping(cfg.Mapping.Edges),
			},
			AllowSensitive: assumeYes,
		},
		Store: store,
	})

	switch err := state.LoadSettings(ctx); {
	case errors.Is(err, app.ErrNoSavedSettings):
		st := state.Filter()
		st.EdgeLimit = cfg.View.EdgeLimit
		if err := state.SetFilter(st); err != nil {
			store.Close()
			return nil, err
		}
	case err != nil:
		store.Close()
		return nil, err
	}

	sess := &session{cfg: cfg, store: store, state: state}
	if err := sess.loadInputs(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return sess, nil
}

func (s *session) loadInputs(ctx context.Context) error {
	if filePath == "" && nodesPath == "" && edgesPath == "" {
		return s.state.Restore(ctx)
	}
	if edgesPath != "" && nodesPath == "" && filePath == "" {
		if err := s.state.Restore(ctx); err != nil {
			return err
		}
	}

	inputs := []struct {
		path string
		kind schema.Kind
	}{
		{filePath, ""},
		{nodesPath, schema.KindNodes},
		{edgesPath, schema.KindEdges},
	}
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		sum, err := s.loadPath(ctx, in.path, in.kind)
		if err != nil {
			return fmt.Errorf("%s: %w", in.path, err)
		}
		log.Infow("file loaded", "path", in.path, "nodes", sum.Nodes, "edges", sum.Edges)
	}
	return nil
}

// loadPath loads a single file, or every data file when path is a directory.
// A non-empty kind forces how a single file is read.
func (s *session) loadPath(ctx context.Context, path string, kind schema.Kind) (app.LoadSummary, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return s.state.LoadDir(ctx, path)
	}
	if kind == "" {
		return s.state.LoadFile(ctx, path)
	}
	return s.state.LoadFileAs(ctx, path, kind)
}
