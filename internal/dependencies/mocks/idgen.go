package mocks

import (
	"fmt"

	"github.com/mcoot/happygarden/internal/dependencies/idgen"
)

// MockIDGenerator is a mock implementation of idgen.Generator for testing
type MockIDGenerator struct {
	// IDs is a queue of results to return from NewID
	IDs   []string
	index int
	seq   int
}

// Ensure MockIDGenerator implements Generator
var _ idgen.Generator = (*MockIDGenerator)(nil)

// NewMockIDGenerator creates a new MockIDGenerator
func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

// NewID returns the next queued id, or "id-N" once the queue is exhausted
func (g *MockIDGenerator) NewID() string {
	if g.index < len(g.IDs) {
		id := g.IDs[g.index]
		g.index++
		return id
	}
	g.seq++
	return fmt.Sprintf("id-%d", g.seq)
}

// Queue adds ids to the result queue
func (g *MockIDGenerator) Queue(ids ...string) {
	g.IDs = append(g.IDs, ids...)
}

// Reset clears all queued results
func (g *MockIDGenerator) Reset() {
	g.IDs = nil
	g.index = 0
	g.seq = 0
}
