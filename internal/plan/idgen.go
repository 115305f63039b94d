package plan

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces placed-object identifiers. Uniqueness is only
// required within an editing session.
type IDGenerator interface {
	NextID() string
}

// CounterGenerator produces "<unix-ms>_<n>" identifiers from a clock and a
// monotonic counter.
type CounterGenerator struct {
	now func() time.Time
	n   uint64
}

// CounterOption customizes a CounterGenerator.
type CounterOption func(*CounterGenerator)

// WithClock overrides the clock used for the timestamp prefix.
func WithClock(clock func() time.Time) CounterOption {
	return func(g *CounterGenerator) {
		if clock != nil {
			g.now = clock
		}
	}
}

// NewCounterGenerator builds the default generator.
func NewCounterGenerator(opts ...CounterOption) *CounterGenerator {
	g := &CounterGenerator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NextID returns the next identifier.
func (g *CounterGenerator) NextID() string {
	id := fmt.Sprintf("%d_%d", g.now().UnixMilli(), g.n)
	g.n++
	return id
}

// UUIDGenerator produces time-ordered UUIDv7 identifiers.
type UUIDGenerator struct{}

// NextID returns a new UUID string, falling back to a random v4 UUID if the
// v7 generator fails.
func (UUIDGenerator) NextID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// GeneratorFor maps a configured ID scheme to a generator.
func GeneratorFor(scheme string) (IDGenerator, error) {
	switch scheme {
	case "", "counter":
		return NewCounterGenerator(), nil
	case "uuid":
		return UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("plan: unknown id scheme %q", scheme)
	}
}
