package ledger

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampGenerator_Format(t *testing.T) {
	fixed := time.UnixMilli(1772366400123)
	g := &TimestampGenerator{
		now:    func() time.Time { return fixed },
		random: bytes.NewReader(bytes.Repeat([]byte{0x42}, 512)),
	}

	tests := []struct {
		prefix  string
		wantRef string
	}{
		{"DEPOSIT", "DEPOSIT-1772366400123"},
		{"WITHDRAWAL", "WITHDRAWAL-1772366400123"},
		{"TRANSFER", "TRANSFER-1772366400123"},
		{"DEP", "DEP-1772366400123"},
	}

	txnPattern := regexp.MustCompile(`^TXN-1772366400123-[0-9a-z]{8}$`)
	for _, tc := range tests {
		t.Run(tc.prefix, func(t *testing.T) {
			txID, ref, err := g.NextIDs(tc.prefix)
			require.NoError(t, err)
			assert.Regexp(t, txnPattern, txID)
			assert.Equal(t, tc.wantRef, ref)
		})
	}
}

func TestTimestampGenerator_SameMillisecondCollidesOnReference(t *testing.T) {
	fixed := time.UnixMilli(1772366400123)
	g := NewTimestampGenerator()
	g.now = func() time.Time { return fixed }

	txA, refA, err := g.NextIDs("WITHDRAWAL")
	require.NoError(t, err)
	txB, refB, err := g.NextIDs("WITHDRAWAL")
	require.NoError(t, err)

	assert.Equal(t, refA, refB)
	assert.NotEqual(t, txA, txB)
}

func TestTimestampGenerator_RandomSourceFailure(t *testing.T) {
	g := &TimestampGenerator{now: time.Now, random: strings.NewReader("")}

	_, _, err := g.NextIDs("DEPOSIT")
	require.Error(t, err)
}

func TestUUIDGenerator(t *testing.T) {
	g := UUIDGenerator{}

	txA, refA, err := g.NextIDs("TRANSFER")
	require.NoError(t, err)
	txB, refB, err := g.NextIDs("TRANSFER")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(txA, "TXN-"))
	assert.True(t, strings.HasPrefix(refA, "TRANSFER-"))
	assert.NotEqual(t, txA, txB)
	assert.NotEqual(t, refA, refB)
}

func TestNewIDGenerator(t *testing.T) {
	g, err := NewIDGenerator("timestamp")
	require.NoError(t, err)
	assert.IsType(t, &TimestampGenerator{}, g)

	g, err = NewIDGenerator("uuid")
	require.NoError(t, err)
	assert.IsType(t, UUIDGenerator{}, g)

	_, err = NewIDGenerator("sequence")
	require.Error(t, err)
}
