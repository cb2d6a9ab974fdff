package feed

import (
	"sync"

	"github.com/brianvoe/gofakeit/v6"
)

// Source is the random-draw step of record generation. Tests replace it with a scripted
// sequence to fix the outcome of a tick.
type Source interface {
	// Between returns an integer in [min, max], both inclusive.
	Between(min, max int) int
	// Pick returns one element of pool chosen uniformly.
	Pick(pool []string) string
}

// FakerSource draws from a gofakeit Faker. A zero seed picks a crypto-random one.
type FakerSource struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

func NewFakerSource(seed int64) *FakerSource {
	return &FakerSource{faker: gofakeit.New(seed)}
}

func (s *FakerSource) Between(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Number(min, max)
}

func (s *FakerSource) Pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.RandomString(pool)
}
