package cmd

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tickpiar/tick/services/tickapi/context"
	"github.com/tickpiar/tick/services/tickapi/tickapi"
)

var (
	// Used for flags.
	configFile string

	rootCmd = &cobra.Command{
		Use:   "tickapid",
		Short: "Tick reward economy command-line interface",
	}
)

// Execute executes the root command.
func Execute() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(startCmd())
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./tickapi.toml)")

	err := rootCmd.Execute()
	if err != nil {
		fmt.Printf("Failed executing CLI command: %s, exiting...\n", err)
		os.Exit(1)
	}
}

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start API daemon, a local HTTP server",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var config context.Config
			err = viper.Unmarshal(&config)
			if err != nil {
				return err
			}

			log := logrus.New()
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

			apiCtx := context.NewAPIContext(config)
			tickAPI := tickapi.NewTickAPI(apiCtx, log)
			tickAPI.RegisterRoutes()

			port := strconv.Itoa(apiCtx.Config.Host.Port)
			addr := net.JoinHostPort(apiCtx.Config.Host.Name, port)
			log.WithField("addr", addr).Info("starting tickapi")

			return tickAPI.ListenAndServe(addr)
		},
	}

	return cmd
}

func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("tickapi")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.tickapi")
	}

	viper.SetEnvPrefix("TICK")
	viper.AutomaticEnv()

	// Defaults mirror the production bot's constants; all of them are
	// overridable via config file or TICK_* environment variables.
	viper.SetDefault("app.name", "Tick")
	viper.SetDefault("app.bot-name", "tickpiarrobot")
	viper.SetDefault("host.name", "0.0.0.0")
	viper.SetDefault("host.port", 1337)
	viper.SetDefault("database.hostname", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.db", "tickdb")
	viper.SetDefault("database.pool", 25)
	viper.SetDefault("rewards.referral-bonus", 50)
	viper.SetDefault("rewards.min-task-reward", 15)
	viper.SetDefault("rewards.max-task-reward", 50)
	viper.SetDefault("payment.stars-exchange-rate", 10)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
