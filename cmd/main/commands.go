package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"dogceo/browser/internal/container"
	"dogceo/browser/internal/domain"
	"dogceo/browser/internal/service"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var breedFilter string

// serveCmd runs the web front-end
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the breed index and pictures pages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := app.Run(ctx); err != nil {
			return fmt.Errorf("application exited with error: %w", err)
		}
		log.Info("Application finished successfully")
		return nil
	},
}

// breedsCmd prints the alphabetical index
var breedsCmd = &cobra.Command{
	Use:   "breeds",
	Short: "List all breeds grouped by first letter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := app.CLIService.BuildIndex(commandContext(cmd), container.CLIProfile, breedFilter)
		if err != nil {
			return err
		}
		printIndex(cmd, groups)
		return nil
	},
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print the URL of a random dog picture",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := app.CLIService.RandomImage(commandContext(cmd), container.CLIProfile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), image)
		return nil
	},
}

var imagesCmd = &cobra.Command{
	Use:   "images [breed]",
	Short: "Print every picture of a breed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		images, err := app.CLIService.BreedImages(commandContext(cmd), container.CLIProfile, domain.BreedName(args[0]))
		if err != nil {
			return err
		}
		printLines(cmd, images)
		return nil
	},
}

var subBreedsCmd = &cobra.Command{
	Use:   "subbreeds [breed]",
	Short: "Print the sub-breeds of a breed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subBreeds, err := app.CLIService.SubBreeds(commandContext(cmd), container.CLIProfile, domain.BreedName(args[0]))
		if err != nil {
			return err
		}
		if len(subBreeds) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(no sub-breeds)")
			return nil
		}
		printLines(cmd, subBreeds)
		return nil
	},
}

// selectCmd is the CLI side of clicking a breed on the index page
var selectCmd = &cobra.Command{
	Use:   "select [breed]",
	Short: "Remember a breed for the pictures command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		breed := domain.BreedName(args[0])
		if err := app.CLIService.SelectBreed(commandContext(cmd), container.CLIProfile, breed); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Selected %s\n", breed.Normalize())
		return nil
	},
}

var picturesCmd = &cobra.Command{
	Use:   "pictures",
	Short: "Print the pictures of the selected breed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gallery, err := app.CLIService.LoadGallery(commandContext(cmd), container.CLIProfile)
		if errors.Is(err, service.ErrNoSelection) {
			return fmt.Errorf("%w: run `dogbrowser select <breed>` first", err)
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), gallery.Title)
		printLines(cmd, gallery.Images)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the selected breed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.CLIService.ClearSelection(commandContext(cmd), container.CLIProfile)
		return nil
	},
}

func init() {
	breedsCmd.Flags().StringVarP(&breedFilter, "filter", "f", "", "Only show breeds fuzzily matching this text")
}

func printIndex(cmd *cobra.Command, groups []domain.LetterGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(no breeds)")
		return
	}
	for _, group := range groups {
		fmt.Fprintln(cmd.OutOrStdout(), group.Letter)
		for _, breed := range group.Breeds {
			if len(breed.SubBreeds) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s (%d sub-breeds)\n", breed.Name, len(breed.SubBreeds))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", breed.Name)
			}
		}
	}
}

func printLines[T ~string](cmd *cobra.Command, lines []T) {
	for _, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}
