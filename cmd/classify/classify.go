package classify

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/birdfinder-go/internal/conf"
	"github.com/tphakala/birdfinder-go/internal/pipeline"
)

// Command creates the classify command for assigning migration pattern
// categories to parsed species.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Classify migration patterns",
		Long: `Classify each parsed species as resident, single-season, two-passage or
vagrant based on valley detection over its weekly frequency vector.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.New(settings)
			if err != nil {
				return err
			}
			return p.RunClassify(cmd.Context())
		},
	}
}
