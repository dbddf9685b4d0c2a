// Package main is the entry point for the eduassist terminal client.
package main

import (
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/csheth/eduassist/internal/config"
	"github.com/csheth/eduassist/internal/content"
	"github.com/csheth/eduassist/internal/imagecache"
	"github.com/csheth/eduassist/internal/logging"
	"github.com/csheth/eduassist/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "eduassist",
	Short: "Generate personalized learning content from the terminal",
	Long: `eduassist asks a content service for an explanation of a topic, tailored to
a learning style (standard, visual, auditory or kinesthetic), and shows the
explanation together with the generated illustration.

The service address comes from --api-base-url, EDUASSIST_API_BASE_URL,
api_base_url in eduassist.yaml, NEXT_PUBLIC_API_BASE_URL or API_BASE_URL,
in that order, and defaults to ` + config.DefaultAPIBaseURL + `.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		cfgFile, _ := cmd.Flags().GetString("config")
		if err := config.ReadConfigFile(v, cfgFile); err != nil {
			return err
		}
		if used := v.ConfigFileUsed(); used != "" {
			fmt.Fprintln(os.Stderr, "Using config file:", used)
		}
		return nil
	},
	RunE: runForm,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./eduassist.yaml or ~/.config/eduassist/eduassist.yaml)")
	flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("api-base-url", "", "content service base URL")
	flags.String("log-file", "", "JSON log destination (default: user cache dir)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("lessons", "", "lessons JSON file (default: ./lessons.json)")

	rootCmd.Flags().Duration("timeout", 0, "content request timeout (default 2m)")
	rootCmd.Flags().Duration("image-timeout", 0, "image download timeout (default 1m)")
	rootCmd.Flags().String("cache-dir", "", "image cache directory")
	rootCmd.Flags().Bool("no-alt-screen", false, "disable the alternate screen buffer")
	rootCmd.Flags().Bool("no-images", false, "skip downloading and previewing images")

	bind := map[string]string{
		config.KeyAPIBaseURL: "api-base-url",
		config.KeyLogFile:    "log-file",
		config.KeyLogLevel:   "log-level",
		config.KeyLessons:    "lessons",
	}
	for key, flag := range bind {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	local := map[string]string{
		config.KeyTimeout:      "timeout",
		config.KeyImageTimeout: "image-timeout",
		config.KeyCacheDir:     "cache-dir",
		config.KeyNoAltScreen:  "no-alt-screen",
		config.KeyNoImages:     "no-images",
	}
	for key, flag := range local {
		_ = v.BindPFlag(key, rootCmd.Flags().Lookup(flag))
	}
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging disabled:", err)
		logger = logging.Nop()
	}
	defer logger.Sync()

	client, err := content.New(content.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.RequestTimeout})
	if err != nil {
		return fmt.Errorf("content client: %w", err)
	}

	var images tui.ImageFetcher
	if !cfg.NoImages {
		cache, err := imagecache.New(cfg.CacheDir, &http.Client{Timeout: cfg.ImageTimeout})
		if err != nil {
			logger.Warn("image previews disabled", "error", err)
		} else {
			images = cache
		}
	}

	logger.Info("starting",
		"version", version,
		"api_base_url", cfg.APIBaseURL,
		"lessons", cfg.LessonsPath,
		"images", images != nil,
	)

	opts := []tea.ProgramOption{}
	if !cfg.NoAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Client:      client,
			Images:      images,
			LessonsPath: cfg.LessonsPath,
			Logger:      logger,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		logger.Error("program error", "error", err)
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
