package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/1broseidon/winhide/internal/config"
	"github.com/1broseidon/winhide/internal/ipc"
	"github.com/1broseidon/winhide/internal/logging"
	"github.com/1broseidon/winhide/internal/runtimepath"
)

var version = "dev"

var (
	// Global flags.
	flagConfig   string
	flagSocket   string
	flagLogLevel string

	env config.Env
)

var rootCmd = &cobra.Command{
	Use:   "winhide",
	Short: "Hide chosen windows behind a hotkey and bring them back",
	Long: `winhide hides a chosen set of top-level windows from view, the taskbar
and the task switcher with one hotkey, and restores them to their exact
position, size and minimized/maximized state with another.

Run "winhide daemon" to register the hotkeys; the other commands talk to the
running daemon over a local socket.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		env, err = config.LoadEnv()
		return err
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default: $WINHIDE_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagSocket, "socket", "", "daemon socket path (default: $WINHIDE_SOCKET or the runtime dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// configStore returns the store for the resolved config path. The flag wins
// over WINHIDE_CONFIG.
func configStore() (*config.Store, error) {
	if flagConfig != "" {
		return config.NewStore(flagConfig), nil
	}
	path, err := env.ResolvePath()
	if err != nil {
		return nil, err
	}
	return config.NewStore(path), nil
}

func socketPath() (string, error) {
	override := flagSocket
	if override == "" {
		override = env.Socket
	}
	return runtimepath.ResolveSocket(override)
}

func newClient() (*ipc.Client, error) {
	path, err := socketPath()
	if err != nil {
		return nil, err
	}
	return ipc.NewClient(path), nil
}

// newLogger builds the process logger. The level comes from the flag, then
// WINHIDE_LOG_LEVEL, then the config file.
func newLogger(cfgLevel string) (*logging.Logger, error) {
	level := firstNonEmpty(flagLogLevel, env.LogLevel, cfgLevel)
	logger, err := logging.New(logging.Config{Level: level})
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return logger, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// stderrLogger is used by client commands that only log failures.
func stderrLogger() *zap.Logger {
	logger, err := newLogger("warn")
	if err != nil {
		return zap.NewNop()
	}
	return logger.Logger
}
