package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseByteSpec parses a byte-set specification. Bytes may appear literally
// or as escapes: \xNN hex escapes plus \\, \0, \n, \r and \t. Duplicates are
// permitted; membership is what matters to the caller.
func ParseByteSpec(spec string) ([]byte, error) {
	if spec == "" {
		return nil, fmt.Errorf("byte specification cannot be empty")
	}

	out := make([]byte, 0, len(spec))
	for i := 0; i < len(spec); {
		if spec[i] != '\\' {
			out = append(out, spec[i])
			i++
			continue
		}
		if i+1 >= len(spec) {
			return nil, fmt.Errorf("dangling escape at position %d", i)
		}
		switch spec[i+1] {
		case 'x':
			if i+4 > len(spec) {
				return nil, fmt.Errorf("truncated hex escape at position %d", i)
			}
			v, err := strconv.ParseUint(spec[i+2:i+4], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid hex escape %q at position %d", spec[i:i+4], i)
			}
			out = append(out, byte(v))
			i += 4
		case '\\':
			out = append(out, '\\')
			i += 2
		case '0':
			out = append(out, 0x00)
			i += 2
		case 'n':
			out = append(out, '\n')
			i += 2
		case 'r':
			out = append(out, '\r')
			i += 2
		case 't':
			out = append(out, '\t')
			i += 2
		default:
			return nil, fmt.Errorf("unsupported escape %q at position %d", spec[i:i+2], i)
		}
	}

	return out, nil
}

// ParseWord parses a 32-bit word given in decimal, hex (0x prefix) or octal
// (0 prefix) notation.
func ParseWord(input string) (uint32, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("value cannot be empty")
	}

	v, err := strconv.ParseUint(input, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid 32-bit value %q: %w", input, err)
	}
	return uint32(v), nil
}

// ValidateMaxDivisions checks the operand-count bound.
func ValidateMaxDivisions(n int) error {
	if n < 1 {
		return fmt.Errorf("max divisions must be at least 1, got %d", n)
	}
	if n > 256 {
		return fmt.Errorf("max divisions cannot exceed 256, got %d", n)
	}
	return nil
}

// ValidateWorkers checks the parallel worker count.
func ValidateWorkers(n int) error {
	if n < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", n)
	}
	if n > 1024 {
		return fmt.Errorf("workers cannot exceed 1024, got %d", n)
	}
	return nil
}
