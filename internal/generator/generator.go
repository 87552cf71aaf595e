// Package generator produces synthetic contacts for the demo upload flow.
// Nothing here touches a real device address book.
package generator

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/numberfinder/backend/internal/domain"
)

const (
	// PhonePrefix starts every generated number (Saudi mobile range).
	PhonePrefix = "05"
	// PhoneLength is the total digit count of a generated number.
	PhoneLength = 10
)

// Name pools. Names are "<given> <family>" where both parts cycle by record
// index, so the first six records are the familiar demo contacts (Ahmad Mohammed, Sara Ali, ...).
var (
	givenNames = []string{
		"Ahmad", "Sara", "Khaled", "Noura", "Faisal", "Reem",
		"Omar", "Layla", "Yousef", "Huda", "Abdulrahman", "Maha",
	}
	familyNames = []string{
		"Mohammed", "Ali", "Abdullah", "Saad", "Omar", "AlQahtani",
		"AlOtaibi", "AlHarbi", "AlShehri", "AlDosari",
	}
)

// Generator creates batches of contacts. It is safe for concurrent use.
type Generator struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	newTag func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source for phone digits. Tests pass a seeded PCG.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rnd = r }
}

// WithTagFunc sets the factory for the per-call tag. Defaults to a random UUID.
func WithTagFunc(fn func() string) Option {
	return func(g *Generator) { g.newTag = fn }
}

// New returns a Generator seeded from the runtime's random source.
func New(opts ...Option) *Generator {
	g := &Generator{
		rnd:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newTag: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns count contacts without IDs, all sharing one fresh tag.
// Returns domain.ErrValidation if count is negative.
func (g *Generator) Generate(count int) ([]domain.Contact, error) {
	if count < 0 {
		return nil, fmt.Errorf("generator.Generate: %w: count must not be negative, got %d", domain.ErrValidation, count)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	tag := g.newTag()
	contacts := make([]domain.Contact, count)
	for i := range contacts {
		contacts[i] = domain.Contact{
			Name:  Name(i),
			Phone: g.phone(),
			Tag:   tag,
		}
	}
	return contacts, nil
}

// Name returns the display name for record index i.
func Name(i int) string {
	return givenNames[i%len(givenNames)] + " " + familyNames[i%len(familyNames)]
}

// phone returns PhonePrefix followed by zero-padded random digits.
// Callers must hold g.mu.
func (g *Generator) phone() string {
	digits := PhoneLength - len(PhonePrefix)
	limit := 1
	for range digits {
		limit *= 10
	}
	return fmt.Sprintf("%s%0*d", PhonePrefix, digits, g.rnd.IntN(limit))
}
