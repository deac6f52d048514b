package run

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/birdfinder-go/internal/conf"
	"github.com/tphakala/birdfinder-go/internal/pipeline"
)

// Command creates the run command, which executes the full pipeline:
// parse, classify, timing and merge.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full processing pipeline for a region",
		Long: `Run all pipeline stages in order: parse the eBird barchart export,
classify migration patterns, calculate arrival and departure timing, and
merge everything into the region's species JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.New(settings)
			if err != nil {
				return err
			}
			return p.Run(cmd.Context())
		},
	}
}
