package askagent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soundprediction/go-askagent/pkg/config"
	"github.com/soundprediction/go-askagent/pkg/display"
	"github.com/soundprediction/go-askagent/pkg/logger"
	"github.com/soundprediction/go-askagent/pkg/transport"
	"github.com/soundprediction/go-askagent/pkg/types"
)

var rootCmd = &cobra.Command{
	Use:   "askagent",
	Short: "Client for the question-answering assistant",
	Long: `askagent talks to the question-answering assistant backend.

It can:
- Ask a question and show the answer, the context used and the similarity score
- List, answer and delete unanswered questions (admin key required)
- Run a local gateway for the browser widget

Configuration can be provided through a config file, ASKAGENT_* environment
variables, a .env file, or command-line flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errReported marks failures the command already printed to the user.
var errReported = errors.New("question failed")

var (
	cfgFile string
	envFile string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load if present")
	rootCmd.PersistentFlags().String("base-url", "", "Backend base URL (default derived from api.host and api.port)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout (0 uses the transport default)")
}

// Execute runs the command tree. Errors are printed here unless the
// command already reported them.
func Execute(ctx context.Context) error {
	ctx = types.WithRequestSource(ctx, types.SourceCLI)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}

// runtime bundles what every subcommand needs
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	transport *transport.Client
	printer   *display.Printer
}

func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load(viper.GetViper(), config.LoadOptions{
		ConfigFile: cfgFile,
		EnvFile:    envFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrideConfigWithFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.NewLogger(cmd.ErrOrStderr(), level, cfg.Log.Color)

	client, err := transport.NewClient(cfg.Transport(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	return &runtime{
		cfg:       cfg,
		logger:    log,
		transport: client,
		printer:   display.NewPrinter(cmd.OutOrStdout(), cfg.Log.Color),
	}, nil
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("base-url") {
		cfg.API.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("no-color") {
		noColor, _ := flags.GetBool("no-color")
		cfg.Log.Color = !noColor
	}
	if flags.Changed("timeout") {
		cfg.API.Timeout, _ = flags.GetDuration("timeout")
	}
	if f := flags.Lookup("admin-key"); f != nil && f.Changed {
		cfg.Admin.Key = f.Value.String()
	}
}
