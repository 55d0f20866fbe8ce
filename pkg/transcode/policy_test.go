package transcode_test

import (
	"testing"
	"testing/quick"

	"github.com/aretw0/marginalia/pkg/transcode"
	"github.com/stretchr/testify/assert"
)

func TestEscapePipes_Reversible(t *testing.T) {
	for _, s := range []string{"", "a|b", `a\|b`, `\`, `|\|`, "||", `a\\|`} {
		escaped := transcode.EscapePipes(s)
		assert.Equal(t, s, transcode.UnescapePipes(escaped), "input %q", s)
	}

	roundTrip := func(s string) bool {
		return transcode.UnescapePipes(transcode.EscapePipes(s)) == s
	}
	assert.NoError(t, quick.Check(roundTrip, nil))
}

func TestEscapePipes_NoBarePipes(t *testing.T) {
	check := func(s string) bool {
		escaped := transcode.EscapePipes(s)
		for i := 0; i < len(escaped); i++ {
			if escaped[i] == '|' && (i == 0 || escaped[i-1] != '\\') {
				return false
			}
		}
		return true
	}
	assert.NoError(t, quick.Check(check, nil))
}

func TestCleanCell(t *testing.T) {
	assert.Equal(t, `a\|b`, transcode.CleanCell("  a|b \n"))
}

func TestPadRow(t *testing.T) {
	assert.Equal(t, []string{"a", "", ""}, transcode.PadRow([]string{"a"}, 3))
	assert.Equal(t, []string{"a", "b"}, transcode.PadRow([]string{"a", "b"}, 1))
	assert.Equal(t, []string{"", ""}, transcode.PadRow(nil, 2))
}
