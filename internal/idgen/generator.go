package idgen

import (
	"crypto/rand"
	"io"
	mrand "math/rand"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
)

// Strategy selects how new node ids are produced.
type Strategy string

const (
	// StrategyRandom produces 16 characters from a 62-symbol alphabet.
	StrategyRandom Strategy = "random"
	// StrategyULID produces time-ordered ULIDs.
	StrategyULID Strategy = "ulid"
)

// Generator produces unique opaque ids.
type Generator func() string

const (
	randomLength   = 16
	randomAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

var (
	entropy     io.Reader
	entropyOnce sync.Once

	mu        sync.RWMutex
	generator = Random
)

// ForStrategy returns the generator for s.
func ForStrategy(s Strategy) (Generator, error) {
	switch s {
	case "", StrategyRandom:
		return Random, nil
	case StrategyULID:
		return ULID, nil
	default:
		return nil, errors.Errorf("unknown id strategy %q", s)
	}
}

// Random returns a 16-character id drawn from crypto/rand.
func Random() string {
	buf := make([]byte, randomLength)
	if _, err := rand.Read(buf); err != nil {
		panic("idgen: crypto/rand failed: " + err.Error())
	}
	for i, b := range buf {
		// 248 is the largest multiple of 62 below 256; fall back to a
		// fresh byte to keep the distribution uniform.
		for b >= 248 {
			var one [1]byte
			if _, err := rand.Read(one[:]); err != nil {
				panic("idgen: crypto/rand failed: " + err.Error())
			}
			b = one[0]
		}
		buf[i] = randomAlphabet[int(b)%len(randomAlphabet)]
	}
	return string(buf)
}

func defaultEntropy() io.Reader {
	entropyOnce.Do(func() {
		rng := mrand.New(mrand.NewSource(time.Now().UnixNano()))

		entropy = &ulid.LockedMonotonicReader{
			MonotonicReader: ulid.Monotonic(rng, 0),
		}
	})
	return entropy
}

// ULID returns a new ULID string.
func ULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), defaultEntropy()).String()
}

var randomRe = regexp.MustCompile(`^[0-9A-Za-z]{16}$`)

// ValidID reports whether id looks like an id produced by one of the
// strategies.
func ValidID(id string) bool {
	if randomRe.MatchString(id) {
		return true
	}
	_, err := ulid.ParseStrict(id)
	return err == nil
}

// GenerateID produces an id using the process-wide generator.
func GenerateID() string {
	mu.RLock()
	gen := generator
	mu.RUnlock()
	return gen()
}

// Default returns the process-wide generator as a value that can be
// injected into components.
func Default() Generator {
	return GenerateID
}

func ResetGenerator() {
	mu.Lock()
	generator = Random
	mu.Unlock()
}

// MockGenerator makes GenerateID return mockValue until ResetGenerator.
func MockGenerator(mockValue string) {
	mu.Lock()
	generator = func() string { return mockValue }
	mu.Unlock()
}

// SequenceGenerator returns a deterministic generator producing
// prefix-1, prefix-2, ... for tests.
func SequenceGenerator(prefix string) Generator {
	var (
		m sync.Mutex
		n int
	)
	return func() string {
		m.Lock()
		defer m.Unlock()
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
