package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/opener/internal/config"
	"github.com/zjrosen/opener/internal/log"
)

var (
	version    = "dev"
	cfgFile    string
	cfg        config.Config
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "opener",
	Short: "Decide which command opens a file",
	Long: `opener resolves files to the command line that should open them, using
your custom commands and associations first and the platform defaults after.

Custom commands are kept in commands.yaml and associations in associations.xml
inside the preferences directory. A legacy commands.xml is migrated
automatically the first time opener saves.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/opener/config.yaml)")
	rootCmd.PersistentFlags().StringP("prefs", "p", "",
		"preferences directory holding the store files")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write debug logs (also OPENER_DEBUG=1)")

	bindFlags()
}

// bindFlags binds the persistent flags to their viper keys.
func bindFlags() {
	_ = viper.BindPFlag("preferences_dir", rootCmd.PersistentFlags().Lookup("prefs"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Defaults()
	// Every key needs a default so AutomaticEnv can find its OPENER_ variable.
	viper.SetDefault("commands_file", defaults.CommandsFile)
	viper.SetDefault("legacy_commands_file", defaults.LegacyCommandsFile)
	viper.SetDefault("associations_file", defaults.AssociationsFile)
	viper.SetDefault("allow_executable_fallback", defaults.AllowExecutableFallback)
	viper.SetDefault("bootstrap_system", defaults.BootstrapSystem)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("debug_log", defaults.DebugLog)

	viper.SetEnvPrefix("OPENER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .opener/config.yaml (current directory)
		// 2. ~/.config/opener/config.yaml (user config)
		if _, err := os.Stat(".opener/config.yaml"); err == nil {
			viper.SetConfigFile(".opener/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "opener"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file just means defaults; anything else is worth a log line.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.ErrorErr(log.CatConfig, "Failed to read config", err, "path", viper.ConfigFileUsed())
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// setup runs before every subcommand: it starts debug logging and validates
// the configuration.
func setup(_ *cobra.Command, _ []string) error {
	if cfg.Debug && logCleanup == nil {
		cleanup, err := log.InitWithTeaLog(cfg.DebugLog, "opener")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup
		log.Info(log.CatConfig, "opener starting", "version", version, "config", viper.ConfigFileUsed())
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// configFilePath returns the config file in use, or the user config path
// when none was loaded.
func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "opener", "config.yaml")
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
