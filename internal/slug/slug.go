package slug

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mathrand "math/rand"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	Alphabet           = "abcdefghijklmnopqrstuvwxyz0123456789"
	DefaultLength      = 12
	DefaultMaxAttempts = 8
)

// SlugGenerationError is returned when no unique slug could be stored within
// the attempt budget.
type SlugGenerationError struct {
	Attempts int
	Err      error
}

func (e *SlugGenerationError) Error() string {
	return fmt.Sprintf("generate unique share slug, %d attempts: %s", e.Attempts, e.Err)
}

func (e *SlugGenerationError) Unwrap() error {
	return e.Err
}

// PersistFunc tries to store the candidate under a uniqueness constraint.
type PersistFunc func(ctx context.Context, candidate string) error

type Generator struct {
	Length      int
	MaxAttempts int
	// IsConflict classifies errors of PersistFunc that warrant a fresh candidate.
	IsConflict func(error) bool

	randInt func(max *big.Int) (*big.Int, error)
	now     func() time.Time
}

func NewGenerator(length, maxAttempts int, isConflict func(error) bool) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{
		Length:      length,
		MaxAttempts: maxAttempts,
		IsConflict:  isConflict,
		randInt: func(max *big.Int) (*big.Int, error) {
			return rand.Int(rand.Reader, max)
		},
		now: time.Now,
	}
}

// Generate returns a fresh lowercase alphanumeric candidate. The secure random
// source is used when it works; otherwise a timestamp based weak candidate.
func (g *Generator) Generate() string {
	var sb strings.Builder
	sb.Grow(g.Length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < g.Length; i++ {
		n, err := g.randInt(max)
		if err != nil {
			log.Warnf("secure random source failed, using weak slug: %s", err)
			return g.weak()
		}
		sb.WriteByte(Alphabet[n.Int64()])
	}
	return sb.String()
}

func (g *Generator) weak() string {
	seed := strconv.FormatInt(g.now().UnixNano(), 36) + strconv.FormatInt(mathrand.Int63(), 36)
	var sb strings.Builder
	sb.Grow(g.Length)
	for i := 0; sb.Len() < g.Length; i++ {
		if i < len(seed) {
			sb.WriteByte(seed[len(seed)-1-i])
			continue
		}
		sb.WriteByte(Alphabet[mathrand.Intn(len(Alphabet))])
	}
	return sb.String()
}

// GenerateUnique mints candidates until persist accepts one. Conflicts are
// retried with a fresh candidate up to MaxAttempts; other errors abort.
func (g *Generator) GenerateUnique(ctx context.Context, persist PersistFunc) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= g.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := g.Generate()
		err := persist(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if g.IsConflict == nil || !g.IsConflict(err) {
			return "", fmt.Errorf("persist slug: %w", err)
		}

		log.Debugf("share slug [%s] taken, attempt %d/%d", candidate, attempt, g.MaxAttempts)
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("no attempts made")
	}
	return "", &SlugGenerationError{Attempts: g.MaxAttempts, Err: lastErr}
}

// maxLength bounds slugs accepted from URLs; stored slugs are much shorter.
const maxLength = 64

// Valid reports whether s could be a share slug: non-empty, lowercase alphanumeric.
func Valid(s string) bool {
	if s == "" || len(s) > maxLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(Alphabet, rune(s[i])) {
			return false
		}
	}
	return true
}
