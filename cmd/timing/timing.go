package timing

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/birdfinder-go/internal/conf"
	"github.com/tphakala/birdfinder-go/internal/pipeline"
)

// Command creates the timing command for extracting arrival, peak and
// departure weeks.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "timing",
		Short: "Calculate migration timing",
		Long: `Calculate arrival, peak and departure timing for each species according
to its migration pattern and write the timing CSV intermediate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.New(settings)
			if err != nil {
				return err
			}
			return p.RunTiming(cmd.Context())
		},
	}
}
