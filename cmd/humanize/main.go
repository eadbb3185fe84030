package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"humanizer/internal/config"
	"humanizer/internal/humanize"
	"humanizer/internal/journal"
	"humanizer/internal/logging"
	"humanizer/internal/perception"
	"humanizer/internal/persona"
)

var (
	// Global flags
	verbose    bool
	configPath string
	workspace  string
	timeout    time.Duration
	seed       uint64

	// Logger
	logger *zap.Logger

	// newClient builds the rewrite collaborator. Tests replace it.
	newClient = func(cfg *config.Config) (perception.LLMClient, error) {
		if err := cfg.RequireAPIKey(); err != nil {
			return nil, err
		}
		return perception.NewClientFromConfig(cfg.LLM)
	}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "humanize",
	Short: "Rewrite machine-sounding prose so it reads like a person wrote it",
	Long: `humanize runs a passage through a deterministic mangling pipeline
(vocabulary simplification, sentence-length balancing, redundancy and fragment
injection), picks a writing persona that has not been used for that passage yet in
this session, and asks a language model to rewrite the result in that voice.

Configuration lives in .humanizer/config.yaml under the workspace. API keys can also
come from OPENAI_API_KEY, OPENROUTER_API_KEY or GEMINI_API_KEY.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: <workspace>/"+config.DefaultConfigPath+")")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Overall command timeout (0 = none)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed for the mangling stages and persona picks (0 = random)")

	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

// describeError turns pipeline sentinels into the messages users see.
func describeError(err error) string {
	switch {
	case errors.Is(err, humanize.ErrInputEmpty):
		return "Error: nothing to humanize, the input is empty."
	case errors.Is(err, humanize.ErrExternalCall):
		return fmt.Sprintf("Error: the rewrite service failed: %v", err)
	case errors.Is(err, perception.ErrNoAPIKey):
		return "Error: no API key configured. Set OPENAI_API_KEY, OPENROUTER_API_KEY or GEMINI_API_KEY."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// commandContext returns a context cancelled on SIGINT/SIGTERM and after --timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	return tctx, func() {
		cancel()
		stop()
	}
}

func resolveWorkspace() string {
	if workspace != "" {
		if abs, err := filepath.Abs(workspace); err == nil {
			return abs
		}
		return workspace
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// inWorkspace resolves a relative path against the workspace.
func inWorkspace(ws, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ws, path)
}

// appEnv is the loaded state shared by every command.
type appEnv struct {
	workspace  string
	configPath string
	cfg        *config.Config
}

func loadEnv() (*appEnv, error) {
	ws := resolveWorkspace()
	path := configPath
	if path == "" {
		path = filepath.Join(ws, config.DefaultConfigPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logging.Initialize(filepath.Join(ws, ".humanizer", "logs"), logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSONFormat,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		logger.Warn("file logging disabled", zap.Error(err))
	}
	logging.Boot("config loaded from %s (provider %s, model %s)", path, cfg.LLM.Provider, cfg.LLM.Model)
	logging.BootDebug("workspace %s, journal enabled=%t at %s", ws, cfg.Journal.Enabled, cfg.Journal.Path)

	return &appEnv{workspace: ws, configPath: path, cfg: cfg}, nil
}

// personaSet builds the session's persona table from a file override, the config
// file entry, or the built-in table, then applies the label filter.
func (e *appEnv) personaSet(fileOverride string, labels []string) (persona.Set, error) {
	set := persona.DefaultSet()

	file := fileOverride
	if file == "" {
		file = inWorkspace(e.workspace, e.cfg.Personas.File)
	}
	if file != "" {
		loaded, err := persona.LoadFile(file)
		if err != nil {
			return persona.Set{}, err
		}
		set = loaded
	}

	if len(labels) == 0 {
		labels = e.cfg.Personas.Enabled
	}
	if len(labels) > 0 {
		return set.Filter(labels)
	}
	return set, nil
}

func (e *appEnv) openJournal() (*journal.Store, error) {
	if !e.cfg.Journal.Enabled {
		return nil, nil
	}
	return journal.Open(inWorkspace(e.workspace, e.cfg.Journal.Path))
}

func newRNG() *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// newSession wires a Humanizer. client may be nil for prompt-only runs.
func (e *appEnv) newSession(client perception.LLMClient, set persona.Set) (*humanize.Humanizer, error) {
	if client != nil {
		client = perception.NewTracingClient(client)
	}
	h, err := humanize.New(client, humanize.OptionsFromConfig(e.cfg.Pipeline), set, nil, newRNG())
	if err != nil {
		return nil, err
	}
	logger.Debug("session started",
		zap.String("session", h.SessionID()),
		zap.Strings("personas", set.Labels()),
		zap.Uint64("seed", seed))
	return h, nil
}
