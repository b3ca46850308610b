// Package seed turns user supplied seed text into reproducible random
// sources, so a printed maze can be generated again.
package seed

import (
	"encoding/binary"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

var ErrEmptySeed = errors.New("seed: empty seed")

// Parse converts seed text to a numeric seed. Decimal integers are used as
// they are; any other text is hashed, so words and phrases work too.
func Parse(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrEmptySeed
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}

	sum := blake2b.Sum256([]byte(text))
	return int64(binary.BigEndian.Uint64(sum[:8])), nil
}

// Random returns a clock based seed.
func Random() int64 {
	return time.Now().UnixNano()
}

// New returns a random source for seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Resolve parses text, or picks a random seed when text is empty. The
// second result reports whether the seed was picked at random.
func Resolve(text string) (int64, bool, error) {
	if strings.TrimSpace(text) == "" {
		return Random(), true, nil
	}
	s, err := Parse(text)
	return s, false, err
}
