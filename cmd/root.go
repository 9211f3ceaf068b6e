// Package cmd wires the regdash command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/regdash/internal/app"
	"github.com/zjrosen/regdash/internal/auth"
	"github.com/zjrosen/regdash/internal/config"
	"github.com/zjrosen/regdash/internal/log"
	"github.com/zjrosen/regdash/internal/tracing"
	"github.com/zjrosen/regdash/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".regdash/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "regdash",
	Short: "Sign up and view your profile from the terminal",
	Long: `A terminal client for an account API: create an account with a validated
registration form, then land on a dashboard showing your profile.

Run 'regdash serve' to start a local API to register against.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/regdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also enabled by REGDASH_DEBUG)")
	rootCmd.Flags().String("api", "", "auth API base URL (overrides api.base_url)")

	_ = viper.BindPFlag("api.base_url", rootCmd.Flags().Lookup("api"))
}

// setDefaults registers every default with viper so Unmarshal fills keys
// missing from the config file.
func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.timeout", defaults.API.Timeout)
	v.SetDefault("api.user_cache_ttl", defaults.API.UserCacheTTL)
	v.SetDefault("form.debounce", defaults.Form.Debounce)
	v.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	v.SetDefault("ui.mouse", defaults.UI.Mouse)
	v.SetDefault("log.path", defaults.Log.Path)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.db_path", defaults.Server.DBPath)
	v.SetDefault("server.session_ttl", defaults.Server.SessionTTL)
}

func initConfig() {
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .regdash/config.yaml (current directory)
		// 2. ~/.config/regdash/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "regdash"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .regdash/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// reloadConfig re-reads the active config file.
func reloadConfig() (config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("reading config: %w", err)
	}
	var c config.Config
	if err := viper.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

// initLogging enables the file logger when --debug or REGDASH_DEBUG is set.
// The returned cleanup is never nil.
func initLogging(prefix string) (func(), error) {
	if os.Getenv("REGDASH_DEBUG") == "" && !debugFlag {
		log.SetEnabled(false)
		return func() {}, nil
	}

	logPath := os.Getenv("REGDASH_LOG")
	if logPath == "" {
		logPath = cfg.Log.Path
	}
	if logPath == "" {
		logPath = "debug.log"
	}

	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
	log.Info(log.CatConfig, "regdash starting", "version", version, "logPath", logPath, "config", viper.ConfigFileUsed())
	return cleanup, nil
}

func runApp(_ *cobra.Command, _ []string) error {
	cleanup, err := initLogging("regdash")
	if err != nil {
		return err
	}
	defer cleanup()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := styles.ApplyTheme(app.ThemeFromConfig(cfg.Theme)); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}

	provider, err := tracing.NewProvider(cfg.Tracing, tracing.ServiceTUI)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer shutdownTracing(provider)

	client, err := auth.NewClient(auth.ClientConfig{
		BaseURL:      config.NormalizeBaseURL(cfg.API.BaseURL),
		Timeout:      cfg.API.Timeout,
		UserCacheTTL: cfg.API.UserCacheTTL,
		Tracing:      provider,
	})
	if err != nil {
		return fmt.Errorf("creating api client: %w", err)
	}

	broker := auth.NewBroker()
	defer broker.Close()

	zone.NewGlobal()

	// Store the config file path for live theme reload
	configFilePath := viper.ConfigFileUsed()
	var reload func() (config.Config, error)
	if configFilePath != "" {
		reload = reloadConfig
	}

	model := app.New(app.Options{
		Session:    auth.NewSession(client, broker),
		Config:     cfg,
		ConfigPath: configFilePath,
		Reload:     reload,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(&model, opts...)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func shutdownTracing(provider *tracing.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := provider.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatConfig, "Tracing shutdown failed", err)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
