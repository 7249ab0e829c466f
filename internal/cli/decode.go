package cli

import (
	"encoding/binary"
	"fmt"
	"unicode"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/glyphite/subencode/internal/validation"
	"github.com/glyphite/subencode/pkg/config"
	"github.com/glyphite/subencode/pkg/encoder"
)

// NewDecodeCommand creates the decode command
func NewDecodeCommand() *cobra.Command {
	var initial string

	cmd := &cobra.Command{
		Use:   "decode <operand> [operand...]",
		Short: "Replay subtraction operands and show the reconstructed word",
		Long: `Subtract the given 32-bit operands in order from the initial register
value (mod 2^32) and print the word they reconstruct. This is the runtime
effect of one encoded chunk, useful for checking an encoding by hand.

Example:
  subencode decode 0x11292109 0x10292008`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewManager()
			if err != nil {
				return err
			}

			initialValue, err := resolveInitial(initial, cfg)
			if err != nil {
				return err
			}

			ops := make([]uint32, len(args))
			for i, arg := range args {
				v, err := validation.ParseWord(arg)
				if err != nil {
					return err
				}
				ops[i] = v
			}

			value := encoder.Decode(ops, initialValue)

			var raw [4]byte
			binary.LittleEndian.PutUint32(raw[:], value)

			green := color.New(color.FgGreen, color.Bold)
			green.Printf("%#010x", value)
			fmt.Printf("  (bytes %s)\n", printableBytes(raw[:]))
			return nil
		},
	}

	cmd.Flags().StringVar(&initial, "initial", "", "Initial register value (default 0)")

	return cmd
}

func printableBytes(b []byte) string {
	out := make([]rune, 0, len(b)*5)
	for i, c := range b {
		if i > 0 {
			out = append(out, ' ')
		}
		if c < unicode.MaxASCII && unicode.IsPrint(rune(c)) {
			out = append(out, '\'', rune(c), '\'')
		} else {
			out = append(out, []rune(fmt.Sprintf("%02x", c))...)
		}
	}
	return string(out)
}
