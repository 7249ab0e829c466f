package cli

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/glyphite/subencode/internal/validation"
	"github.com/glyphite/subencode/pkg/config"
	"github.com/glyphite/subencode/pkg/encoder"
)

// NewEncodeCommand creates the encode command
func NewEncodeCommand() *cobra.Command {
	var (
		target     string
		input      string
		goodSpec   string
		badSpec    string
		profile    string
		maxDiv     int
		initial    string
		outputFile string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Sub-encode data for targets with restrictive byte filters",
		Long: `Encode 32-bit words as lists of subtraction operands whose bytes all
belong to an allowed byte set.

Each 4-byte little-endian word of the input is encoded independently: the
operands of one chunk, subtracted in order from the initial register value,
reconstruct that word. This is the classic sub-encoding technique for
delivering payloads past filters that only accept certain byte values
(for example alphanumeric-only input).

Examples:
  # Encode a single register value, alphanumeric bytes only
  subencode encode --target 0xdeadbeef --profile alnum

  # Encode shellcode from a file, avoiding NUL, CR and LF
  subencode encode --input sc.bin --badbytes '\x00\r\n'

  # Encode stdin with an explicit allow-list and 4 workers
  cat sc.bin | subencode encode --goodbytes '\x30\x31\x41\x42' --workers 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewManager()
			if err != nil {
				return err
			}
			defaults := cfg.Config().Defaults

			good, err := resolveByteSet(goodSpec, badSpec, profile, cfg)
			if err != nil {
				return err
			}

			if maxDiv == 0 {
				maxDiv = defaults.MaxDivisions
			}
			if err := validation.ValidateMaxDivisions(maxDiv); err != nil {
				return err
			}

			if workers == 0 {
				workers = defaults.Workers
			}
			if err := validation.ValidateWorkers(workers); err != nil {
				return err
			}

			initialValue, err := resolveInitial(initial, cfg)
			if err != nil {
				return err
			}

			enc := &encoder.Encoder{
				Good:    good,
				MaxDiv:  maxDiv,
				Initial: initialValue,
			}
			if err := enc.Validate(); err != nil {
				return err
			}

			var in io.ReadCloser
			if target != "" {
				if cmd.Flags().Changed("input") {
					return fmt.Errorf("--target and --input are mutually exclusive")
				}
				word, err := validation.ParseWord(target)
				if err != nil {
					return fmt.Errorf("invalid --target: %w", err)
				}
				var buf [4]byte
				binary.LittleEndian.PutUint32(buf[:], word)
				in = io.NopCloser(bytes.NewReader(buf[:]))
			} else {
				in, err = openInput(input)
				if err != nil {
					return err
				}
			}
			defer in.Close()

			slog.Debug("encoding stream",
				"good_bytes", good.Len(),
				"max_divisions", maxDiv,
				"initial", fmt.Sprintf("%#010x", initialValue),
				"workers", workers,
			)

			chunks, encErr := enc.EncodeStreamParallel(in, workers)
			for _, c := range chunks {
				if c.Err == nil {
					slog.Debug("encoded chunk",
						"offset", c.Offset,
						"value", fmt.Sprintf("%#010x", c.Value),
						"divisions", len(c.Ops),
					)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if err := writeEncodeResult(chunks, enc, outputFile, jsonOut); err != nil {
				return err
			}

			reportFailures(chunks)
			if encErr != nil {
				return encErr
			}

			if !jsonOut {
				green := color.New(color.FgGreen, color.Bold)
				green.Fprintf(os.Stderr, "✓ encoded %d chunks\n", len(chunks))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Single 32-bit value to encode (hex or decimal)")
	cmd.Flags().StringVarP(&input, "input", "i", "-", "File with data to encode ('-' for stdin)")
	cmd.Flags().StringVarP(&goodSpec, "goodbytes", "g", "", "Allowed bytes (\\xNN escapes supported)")
	cmd.Flags().StringVarP(&badSpec, "badbytes", "b", "", "Forbidden bytes, complemented against 0-255")
	cmd.Flags().StringVar(&profile, "profile", "", "Named byte-set profile from the config")
	cmd.Flags().IntVarP(&maxDiv, "max-div", "m", 0, "Maximum operands per chunk (default 10)")
	cmd.Flags().StringVar(&initial, "initial", "", "Initial register value (default 0)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the result to a file")
	cmd.Flags().IntVar(&workers, "workers", 0, "Encode chunks concurrently with this many workers")

	return cmd
}

type chunkReport struct {
	Offset   int64    `json:"offset"`
	Value    string   `json:"value"`
	Operands []string `json:"operands,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type encodeReport struct {
	Initial      string        `json:"initial"`
	MaxDivisions int           `json:"max_divisions"`
	GoodBytes    int           `json:"good_bytes"`
	Chunks       []chunkReport `json:"chunks"`
}

func writeEncodeResult(chunks []encoder.Chunk, enc *encoder.Encoder, outputFile string, jsonOut bool) error {
	out := io.Writer(os.Stdout)
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if !jsonOut {
		_, err := io.WriteString(out, formatChunksText(chunks))
		return err
	}

	report := encodeReport{
		Initial:      fmt.Sprintf("%#010x", enc.Initial),
		MaxDivisions: enc.MaxDiv,
		GoodBytes:    enc.Good.Len(),
		Chunks:       make([]chunkReport, 0, len(chunks)),
	}
	for _, c := range chunks {
		cr := chunkReport{
			Offset: c.Offset,
			Value:  fmt.Sprintf("%#010x", c.Value),
		}
		for _, op := range c.Ops {
			cr.Operands = append(cr.Operands, fmt.Sprintf("%#010x", op))
		}
		if c.Err != nil {
			cr.Error = c.Err.Error()
		}
		report.Chunks = append(report.Chunks, cr)
	}

	encJSON := json.NewEncoder(out)
	encJSON.SetIndent("", "  ")
	if err := encJSON.Encode(report); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
