package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/birdfinder-go/cmd/classify"
	"github.com/tphakala/birdfinder-go/cmd/hotspots"
	"github.com/tphakala/birdfinder-go/cmd/merge"
	"github.com/tphakala/birdfinder-go/cmd/parse"
	"github.com/tphakala/birdfinder-go/cmd/regions"
	"github.com/tphakala/birdfinder-go/cmd/run"
	"github.com/tphakala/birdfinder-go/cmd/timing"
	"github.com/tphakala/birdfinder-go/internal/conf"
)

// RootCommand creates and returns the root command. Passing nil settings
// loads the global configuration.
func RootCommand(settings *conf.Settings) *cobra.Command {
	if settings == nil {
		settings = conf.Setting()
	}

	rootCmd := &cobra.Command{
		Use:   "birdfinder",
		Short: "BirdFinder-Go CLI",
		Long:  "Process eBird barchart exports into migration pattern and timing data for a region.",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		run.Command(settings),
		parse.Command(settings),
		classify.Command(settings),
		timing.Command(settings),
		merge.Command(settings),
		hotspots.Command(settings),
		regions.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVarP(&settings.Region.ID, "region", "r", viper.GetString("region.id"), "Region to process")
	rootCmd.PersistentFlags().StringVar(&settings.Region.Dir, "regions-dir", viper.GetString("region.dir"), "Directory holding region data")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		cobra.CheckErr(err)
	}
}
