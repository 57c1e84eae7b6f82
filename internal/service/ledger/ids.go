package ledger

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces the transaction id and reference for a new ledger
// entry. referencePrefix is the upper-case operation label, e.g. "DEPOSIT".
type IDGenerator interface {
	NextIDs(referencePrefix string) (transactionID, reference string, err error)
}

const (
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength   = 8
)

// TimestampGenerator reproduces the legacy format:
// TXN-<epochMillis>-<base36 suffix> and <PREFIX>-<epochMillis>.
// References collide when two operations of the same kind land in the same
// millisecond; the ledger's unique constraint rejects the second one.
type TimestampGenerator struct {
	now    func() time.Time
	random io.Reader
}

func NewTimestampGenerator() *TimestampGenerator {
	return &TimestampGenerator{now: time.Now, random: rand.Reader}
}

func (g *TimestampGenerator) NextIDs(referencePrefix string) (string, string, error) {
	millis := g.now().UnixMilli()

	suffix, err := randomBase36(g.random, suffixLength)
	if err != nil {
		return "", "", fmt.Errorf("NextIDs: %w", err)
	}

	return fmt.Sprintf("TXN-%d-%s", millis, suffix), fmt.Sprintf("%s-%d", referencePrefix, millis), nil
}

func randomBase36(r io.Reader, n int) (string, error) {
	radix := big.NewInt(int64(len(base36Alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(r, radix)
		if err != nil {
			return "", fmt.Errorf("randomBase36: %w", err)
		}
		out[i] = base36Alphabet[idx.Int64()]
	}
	return string(out), nil
}

// UUIDGenerator uses random UUIDs for both identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NextIDs(referencePrefix string) (string, string, error) {
	txID, err := uuid.NewRandom()
	if err != nil {
		return "", "", fmt.Errorf("NextIDs: %w", err)
	}
	ref, err := uuid.NewRandom()
	if err != nil {
		return "", "", fmt.Errorf("NextIDs: %w", err)
	}
	return "TXN-" + txID.String(), referencePrefix + "-" + ref.String(), nil
}

// NewIDGenerator maps the configured strategy name to a generator.
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case "", "timestamp":
		return NewTimestampGenerator(), nil
	case "uuid":
		return UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("NewIDGenerator: unknown strategy %q", strategy)
	}
}
