package main

import (
	"context"
	"fmt"

	"dogceo/browser/internal/config"
	"dogceo/browser/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	app        *container.Container
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dogbrowser",
	Short: "Browse dog breeds and their pictures",
	Long: `Browse the dog breed image API.

Pick a breed from the index, then look at its pictures. The web front-end
keeps the choice for the browser session; the CLI keeps it on disk.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		container.SetupLogging(cfg.Logging)

		app, err = container.New(commandContext(cmd), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		return nil
	},
}

// closeApp runs after Execute because cobra skips post-run hooks when a
// command fails, and the bolt file must be unlocked either way.
func closeApp() {
	if app == nil {
		return
	}
	if err := app.Close(); err != nil {
		log.Warnf("⚠️ %v", err)
	}
	app = nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(breedsCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(subBreedsCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(picturesCmd)
	rootCmd.AddCommand(clearCmd)
}
