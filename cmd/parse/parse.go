package parse

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/birdfinder-go/internal/conf"
	"github.com/tphakala/birdfinder-go/internal/pipeline"
)

// Command creates the parse command for converting a raw eBird barchart
// export into the CSV and JSON intermediates.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Parse the eBird barchart export",
		Long: `Parse the region's eBird barchart text export into wide CSV, long CSV
and JSON intermediates. Spuh and slash taxa are dropped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.New(settings)
			if err != nil {
				return err
			}
			return p.RunParse(cmd.Context())
		},
	}
}
