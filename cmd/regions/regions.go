package regions

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/birdfinder-go/internal/conf"
)

// Command creates the regions command, which lists configured regions.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List available regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := conf.ListRegions(settings.Region.Dir)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No regions found under %s\n", settings.Region.Dir)
				return nil
			}
			for _, id := range ids {
				rc, err := conf.LoadRegionConfig(id, settings.Region.Dir)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (invalid config: %v)\n", id, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", id, rc.DisplayName)
			}
			return nil
		},
	}
}
