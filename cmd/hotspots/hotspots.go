package hotspots

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/birdfinder-go/internal/conf"
	"github.com/tphakala/birdfinder-go/internal/pipeline"
)

// Command creates the hotspots command for refreshing hotspot reference
// data from the eBird API.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotspots",
		Short: "Fetch and clean eBird hotspot data",
		Long: `Fetch the region's hotspots from the eBird API, archive the raw
response, report changes against the previous data and write the cleaned
hotspot JSON. Requires an eBird API key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.New(settings)
			if err != nil {
				return err
			}
			return p.RunHotspots(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&settings.EBird.APIKey, "api-key", settings.EBird.APIKey, "eBird API key (or set EBIRD_API_KEY)")
	cmd.Flags().IntVar(&settings.EBird.MinSpecies, "min-species", settings.EBird.MinSpecies, "Drop hotspots below this species count")
	cmd.Flags().IntVar(&settings.EBird.MaxHotspots, "max-hotspots", settings.EBird.MaxHotspots, "Keep at most this many hotspots, 0 for all")

	return cmd
}
