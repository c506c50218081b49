package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/chessbridge/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "chessbridge",
	Short: "Bridge a sensor chessboard to a move consumer",
	Long: `Chessbridge reads occupancy snapshots from a sensor chessboard, filters
out sensor noise, works out which move was played and hands it to a
downstream consumer. Every accepted move is acknowledged back to the board,
and anything that could not be understood is reported to it.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/chessbridge/config.yaml)")
	rootCmd.PersistentFlags().StringP("device", "d", "", "serial device (overrides serial.device)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "move output file, - for stdout (overrides consumer.path)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides logging.level)")
	bindGlobalFlags()
}

// bindGlobalFlags ties the global flags to their config keys.
func bindGlobalFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("serial.device", flags.Lookup("device"))
	_ = viper.BindPFlag("consumer.path", flags.Lookup("output"))
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
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
		viper.AddConfigPath("$HOME/.config/chessbridge")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CHESSBRIDGE")
	// e.g. CHESSBRIDGE_BOARD_LIFT_TIMEOUT for board.lift_timeout
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
