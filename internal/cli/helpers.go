package cli

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/glyphite/subencode/internal/validation"
	"github.com/glyphite/subencode/pkg/config"
	"github.com/glyphite/subencode/pkg/encoder"
)

// resolveByteSet builds the good-byte set from exactly one of the three
// sources: an allow-list spec, a bad-byte spec, or a named config profile.
func resolveByteSet(goodSpec, badSpec, profile string, cfg *config.Manager) (encoder.GoodByteSet, error) {
	var zero encoder.GoodByteSet

	given := 0
	for _, s := range []string{goodSpec, badSpec, profile} {
		if s != "" {
			given++
		}
	}
	if given == 0 {
		return zero, fmt.Errorf("one of --goodbytes, --badbytes or --profile is required")
	}
	if given > 1 {
		return zero, fmt.Errorf("--goodbytes, --badbytes and --profile are mutually exclusive")
	}

	if profile != "" {
		p, ok := cfg.Profile(profile)
		if !ok {
			return zero, fmt.Errorf("unknown byte-set profile %q (see 'subencode sets')", profile)
		}
		goodSpec = p.Good
	}

	if goodSpec != "" {
		allowed, err := validation.ParseByteSpec(goodSpec)
		if err != nil {
			return zero, fmt.Errorf("invalid good-byte specification: %w", err)
		}
		set := encoder.NewGoodByteSet(allowed)
		return set, set.Validate()
	}

	bad, err := validation.ParseByteSpec(badSpec)
	if err != nil {
		return zero, fmt.Errorf("invalid bad-byte specification: %w", err)
	}
	set := encoder.GoodByteSetFromBad(bad)
	return set, set.Validate()
}

// resolveInitial returns the initial register value: the flag when given,
// otherwise the configured default.
func resolveInitial(flag string, cfg *config.Manager) (uint32, error) {
	if flag == "" {
		return cfg.Config().Defaults.Initial, nil
	}
	v, err := validation.ParseWord(flag)
	if err != nil {
		return 0, fmt.Errorf("invalid --initial: %w", err)
	}
	return v, nil
}

// openInput returns a reader for the data to encode. "-" means standard
// input; when stdin is a terminal the user is asked to type hex instead of
// pasting raw binary into a TTY.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		if term.IsTerminal(int(syscall.Stdin)) {
			data, err := readDataInteractive()
			if err != nil {
				return nil, err
			}
			return io.NopCloser(bytes.NewReader(data)), nil
		}
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return f, nil
}

// readDataInteractive reads a hex string from the terminal
func readDataInteractive() ([]byte, error) {
	fmt.Print("Enter data to encode (hex): ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	line = strings.TrimSpace(line)
	data, err := hex.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no data to encode")
	}

	return data, nil
}

// formatChunksText renders successful chunks in the classic copy-paste
// friendly form:
//
//	chunks = [
//	    [0x11292109, 0x10292008],
//	]
func formatChunksText(chunks []encoder.Chunk) string {
	var b strings.Builder
	b.WriteString("chunks = [\n")
	for _, c := range chunks {
		if c.Err != nil {
			continue
		}
		ops := make([]string, len(c.Ops))
		for i, op := range c.Ops {
			ops[i] = fmt.Sprintf("%#010x", op)
		}
		fmt.Fprintf(&b, "    [%s],\n", strings.Join(ops, ", "))
	}
	b.WriteString("]\n")
	return b.String()
}

// reportFailures prints one line per failed chunk to stderr.
func reportFailures(chunks []encoder.Chunk) {
	red := color.New(color.FgRed, color.Bold)
	for _, c := range chunks {
		if c.Err != nil {
			red.Fprintf(os.Stderr, "✗ chunk at offset %#x (%#010x): %v\n", c.Offset, c.Value, c.Err)
		}
	}
}
