package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphite/subencode/pkg/config"
	"github.com/glyphite/subencode/pkg/encoder"
)

func testConfig(t *testing.T) *config.Manager {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.NewManager()
	require.NoError(t, err)
	return cfg
}

func TestResolveByteSet(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name      string
		good      string
		bad       string
		profile   string
		wantLen   int
		wantError bool
	}{
		{
			name:    "Explicit allow-list",
			good:    `\x41\x42\x43`,
			wantLen: 3,
		},
		{
			name:    "Bad bytes complemented",
			bad:     `\x00\x0a`,
			wantLen: 254,
		},
		{
			name:    "Builtin profile",
			profile: "alnum",
			wantLen: 62,
		},
		{
			name:      "No source given",
			wantError: true,
		},
		{
			name:      "Conflicting sources",
			good:      `\x41`,
			bad:       `\x00`,
			wantError: true,
		},
		{
			name:      "Unknown profile",
			profile:   "no-such-profile",
			wantError: true,
		},
		{
			name:      "Invalid spec",
			good:      `\x4`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := resolveByteSet(tt.good, tt.bad, tt.profile, cfg)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, set.Len())
		})
	}
}

func TestResolveByteSetProfileContents(t *testing.T) {
	cfg := testConfig(t)

	set, err := resolveByteSet("", "", "nonull", cfg)
	require.NoError(t, err)
	assert.Equal(t, 255, set.Len())
	assert.False(t, set.Contains(0x00))
}

func TestResolveInitial(t *testing.T) {
	cfg := testConfig(t)
	cfg.Config().Defaults.Initial = 0x11223344

	// Both encode and decode derive their register value here, so the two
	// commands agree on the configured default.
	v, err := resolveInitial("", cfg)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11223344), v)

	v, err = resolveInitial("0xdeadbeef", cfg)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v)

	_, err = resolveInitial("not-a-number", cfg)
	assert.Error(t, err)
}

func TestFormatChunksText(t *testing.T) {
	chunks := []encoder.Chunk{
		{Value: 0xdeadbeef, Ops: encoder.ChunkResult{0x11292109, 0x10292008}},
		{Value: 0x41, Err: assert.AnError},
		{Value: 0x42, Ops: encoder.ChunkResult{0x01020304}},
	}

	want := "chunks = [\n" +
		"    [0x11292109, 0x10292008],\n" +
		"    [0x01020304],\n" +
		"]\n"
	assert.Equal(t, want, formatChunksText(chunks))
}

func TestFormatChunksTextEmpty(t *testing.T) {
	assert.Equal(t, "chunks = [\n]\n", formatChunksText(nil))
}

func TestPrintableBytes(t *testing.T) {
	assert.Equal(t, "'A' 'B' 00 ff", printableBytes([]byte{0x41, 0x42, 0x00, 0xff}))
}
