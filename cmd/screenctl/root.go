package main

import (
	"log"
	"log/slog"

	"screening-backend/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "screenctl"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "screenctl is an operator cli for the candidate-screening backend",
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Same variable names as the API process.
	for key, env := range map[string]string{
		"db-url":       "DB_URL",
		"frontend-url": "FRONTEND_URL",
		"jwt-secret":   "SUPABASE_JWT_SECRET",
		"jwt-audience": "SUPABASE_JWT_AUDIENCE",
		"env":          "APP_ENV",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}
	viper.SetDefault("env", "local")
	viper.SetDefault("jwt-audience", "authenticated")

	rootCmd.PersistentFlags().String("db-url", "", "postgres connection string (env DB_URL)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")

	viper.BindPFlag("db-url", rootCmd.PersistentFlags().Lookup("db-url"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func newLogger() *slog.Logger {
	env := viper.GetString("env")
	if viper.GetBool("debug") {
		env = "local"
	}
	l := logger.New(env).With("component", app)
	slog.SetDefault(l)
	return l
}
