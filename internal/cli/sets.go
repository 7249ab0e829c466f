package cli

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/glyphite/subencode/internal/validation"
	"github.com/glyphite/subencode/pkg/config"
	"github.com/glyphite/subencode/pkg/encoder"
)

// NewSetsCommand creates the sets command, listing available byte-set
// profiles.
func NewSetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sets",
		Short: "List available byte-set profiles",
		Long: `List the byte-set profiles usable with 'encode --profile'. Profiles come
from the built-in defaults plus any defined in the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewManager()
			if err != nil {
				return err
			}
			profiles := cfg.Config().Profiles

			names := make([]string, 0, len(profiles))
			for name := range profiles {
				names = append(names, name)
			}
			sort.Strings(names)

			cyan := color.New(color.FgCyan, color.Bold)
			cyan.Println("Byte-set profiles:")
			fmt.Println()

			for _, name := range names {
				p := profiles[name]
				size := "invalid"
				if allowed, err := validation.ParseByteSpec(p.Good); err == nil {
					size = fmt.Sprintf("%d bytes", encoder.NewGoodByteSet(allowed).Len())
				}
				fmt.Printf("  %-12s %-10s %s\n", name, size, p.Description)
			}
			return nil
		},
	}

	return cmd
}
