package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/passline/internal/pass"
)

// PassInfo describes one registered pass for listings.
type PassInfo struct {
	Name       string `json:"name"`
	Anchor     string `json:"anchor"`
	Capability string `json:"capability"`
}

// NewPassesCommand creates the passes command: list the registered passes.
func NewPassesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passes",
		Short: "List registered passes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			reg := pass.DefaultRegistry()

			var infos []PassInfo
			for _, name := range reg.Names() {
				p, err := reg.Create(name, nil)
				if err != nil {
					// Factories with mandatory options cannot be introspected.
					infos = append(infos, PassInfo{Name: name})
					continue
				}
				infos = append(infos, PassInfo{
					Name:       p.Name(),
					Anchor:     p.Anchor(),
					Capability: p.Capability().String(),
				})
			}

			if rootOpts.Format == "json" {
				return formatter.Success(infos)
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s anchor=%-12s %s\n", info.Name, info.Anchor, info.Capability)
			}
			return nil
		},
	}
	return cmd
}
