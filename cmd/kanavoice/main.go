package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kanavoice/kanavoice/pkg/audio"
	"github.com/kanavoice/kanavoice/pkg/config"
	"github.com/kanavoice/kanavoice/pkg/dictionary"
	"github.com/kanavoice/kanavoice/pkg/logger"
	"github.com/kanavoice/kanavoice/pkg/server"
	"github.com/kanavoice/kanavoice/pkg/voice"
)

var (
	version   = "dev"
	gitCommit string
)

var (
	flagModel   string
	flagAPIBase string
	flagDict    string
	flagLogFile string
	flagVerbose bool
)

func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

var rootCmd = &cobra.Command{
	Use:   "kanavoice",
	Short: "Voice synthesis MCP server",
	Long: `Voice synthesis MCP server.

Sends text to a remote voice synthesis API and plays the resulting
audio on the host. Under WSL, playback is delegated to the Windows
side automatically. English words registered in the custom dictionary
are converted to katakana before synthesis.

Configuration resolution order: flag > environment variable
(VOICE_MODEL, VOICE_API_BASE, VOICE_DICT_PATH) > built-in default.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("model") {
			cfg.Model = flagModel
		}
		if cmd.Flags().Changed("api-base") {
			cfg.APIBase = flagAPIBase
		}
		if cmd.Flags().Changed("dict") {
			cfg.DictPath = flagDict
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = flagLogFile
		}
		if flagVerbose {
			cfg.Verbose = true
		}

		if cfg.Verbose {
			logger.SetLevel(logger.DEBUG)
		}
		if cfg.LogFile != "" {
			if err := logger.EnableFileLogging(cfg.LogFile); err != nil {
				return err
			}
			defer logger.DisableFileLogging()
		}

		store := dictionary.NewStore(cfg.DictPath)
		converter := dictionary.NewConverter(store)
		synth := voice.NewAPISynthesizer(cfg.APIBase, cfg.Model)

		strategy, err := audio.Detect(cfg.Model)
		if err != nil {
			return err
		}
		player := audio.NewPlayer(strategy)

		if !synth.IsAvailable() {
			logger.WarnCF("main", "Voice API is not reachable; say calls will fail until it is",
				map[string]any{"api_base": cfg.APIBase})
		}

		logger.InfoCF("main", "Starting kanavoice", map[string]any{
			"version":  formatVersion(),
			"model":    cfg.Model,
			"dict":     cfg.DictPath,
			"playback": strategy.Name(),
		})

		srv := server.New(store, converter, synth, player, cfg.Model, formatVersion())
		return srv.Run(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Printf("kanavoice %s\n", formatVersion())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "voice model identifier")
	rootCmd.PersistentFlags().StringVar(&flagAPIBase, "api-base", "", "voice API base URL")
	rootCmd.PersistentFlags().StringVar(&flagDict, "dict", "", "path to the shared pronunciation dictionary")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "mirror logs to this file as JSON lines")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.ErrorC("main", err.Error())
		os.Exit(1)
	}
}
