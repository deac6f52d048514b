package merge

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/birdfinder-go/internal/conf"
	"github.com/tphakala/birdfinder-go/internal/pipeline"
)

// Command creates the merge command for producing the final species JSON.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Merge intermediates into the species JSON",
		Long: `Merge the frequency, classification and timing intermediates into the
region's published species JSON, assigning each species a unique short code.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.New(settings)
			if err != nil {
				return err
			}
			return p.RunMerge(cmd.Context())
		},
	}
}
