package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/quizdesk/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "quizdesk",
	Short: "Teacher console for managing quizzes",
	Long: `quizdesk lists your quizzes and lets you publish or delete them.
Every change is confirmed before it is sent, and only one change runs
at a time.

Run without a subcommand to open the interactive screen.`,
	SilenceUsage: true,
	RunE:         runManage,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/quizdesk/config.yaml)")
	rootCmd.PersistentFlags().String("backend", "", "quiz store: http, sqlite or memory")
	rootCmd.PersistentFlags().String("store", "", "SQLite store path")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("gateway.backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("QUIZDESK")
	// e.g., QUIZDESK_API_BASE_URL for api.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
