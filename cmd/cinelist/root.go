package main

import (
	"fmt"
	"os"

	"cinelist/internal/config"
	"cinelist/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cinelist",
	Short: "Movie, series and anime tracking API",
	Long: `CineList serves a catalog of movies, series and anime backed by TMDB
and AniList, and lets registered users rate titles and keep lists.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig loads the env file, if any, and exposes the environment to viper.
func initConfig() {
	log := logger.Get()

	envFile := config.GetEnv("ENV_FILE", ".env.local")
	if err := godotenv.Load(envFile); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	config.SetDefaults(viper.GetViper())
	viper.AutomaticEnv()

	if err := logger.SetLevel(viper.GetString("log_level")); err != nil {
		log.WithError(err).Warn("Invalid log level, keeping info")
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
