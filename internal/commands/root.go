// Package commands provides CLI commands for groqchat.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/diogo/groqchat/internal/api"
	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/config"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// annotationLenientConfig marks commands that must run even when the
// config file is unreadable, so it can be inspected or rewritten.
const annotationLenientConfig = "lenient-config"

// app is the per-invocation state shared by all subcommands
type app struct {
	deps   *Dependencies
	cfg    config.Config
	logger *zap.Logger

	modelFlag   string
	verboseFlag bool
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	a := &app{deps: deps, cfg: config.DefaultConfig(), logger: zap.NewNop()}
	qf := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "groqchat [prompt]",
		Short: "Terminal chat client for the Groq completion API",
		Long: `groqchat sends your messages to a hosted Groq model and shows the reply.
Without an API key it answers from a small offline assistant instead.

Examples:
  groqchat                              Start interactive chat
  groqchat key set                      Store your Groq API key
  groqchat "What is Go?"                Send a single query
  groqchat -f prompt.md                 Read prompt from file
  cat prompt.md | groqchat              Read prompt from stdin
  groqchat "Hello" -o response.md       Save response to file
  groqchat "Hello" --html               Print the reply as HTML`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "groqchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, args, qf.file)
			if err != nil {
				return err
			}
			if !ok {
				return a.runChat(cmd)
			}
			return a.runQuery(cmd.Context(), prompt, qf)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.modelFlag, "model", "m", "", "Model to use (e.g., llama-3.3-70b-versatile)")
	cmd.PersistentFlags().BoolVar(&a.verboseFlag, "verbose", false, "Enable debug logging")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")
	qf.register(cmd)

	cmd.AddCommand(newChatCmd(a))
	cmd.AddCommand(newQueryCmd(a))
	cmd.AddCommand(newKeyCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

// setup loads .env and the config file, applies flags and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	lenient := cmd.Annotations[annotationLenientConfig] != ""

	if err := config.LoadDotEnv(); err != nil && !lenient {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		if !lenient {
			return fmt.Errorf("failed to load config: %w", err)
		}
		fmt.Fprintf(a.deps.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	if a.modelFlag != "" {
		cfg.Model = a.modelFlag
	}
	if a.verboseFlag {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil && !lenient {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	logger, err := a.deps.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// newFileLogger writes JSON logs to the configured log file so the
// terminal UI stays clean.
func newFileLogger(cfg config.Config) (*zap.Logger, error) {
	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{logPath}
	zc.ErrorOutputPaths = []string{logPath}
	if cfg.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// store builds the configured credential store
func (a *app) store() (config.CredentialStore, error) {
	store, err := a.deps.NewStore(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return store, nil
}

// controller wires the credential store and completion client together
func (a *app) controller() (*chat.Controller, config.CredentialStore, error) {
	store, err := a.store()
	if err != nil {
		return nil, nil, err
	}

	opts := api.OptionsFromConfig(a.cfg)
	opts = append(opts, api.WithLogger(a.logger))
	if a.deps.HTTPClient != nil {
		opts = append(opts, api.WithHTTPClient(a.deps.HTTPClient))
	}

	client, err := api.NewCompletionClient(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	ctrl := chat.NewController(store, client, chat.WithLogger(a.logger))
	return ctrl, store, nil
}
