package caps

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator assigns identities to composite instances. It is passed into the
// composition explicitly; the package keeps no process-wide counter.
type Generator interface {
	NextID() string
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func() string

// NextID implements Generator.
func (f GeneratorFunc) NextID() string {
	if f == nil {
		return ""
	}
	return f()
}

// UUIDGenerator returns the default generator producing random UUIDs.
func UUIDGenerator() Generator {
	return GeneratorFunc(uuid.NewString)
}

// SequenceGenerator returns a generator yielding "prefix-N" identities
// starting at start. Safe for concurrent use.
func SequenceGenerator(prefix string, start uint64) Generator {
	return &sequenceGenerator{prefix: prefix, next: start}
}

type sequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	next   uint64
}

func (g *sequenceGenerator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	if g.prefix == "" {
		return fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%s-%d", g.prefix, id)
}
