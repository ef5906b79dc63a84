package pipeline

import (
	"context"
	"sync"
)

// MemoryCheckpoint keeps run progress in process. It only helps a resume within the same
// process; the Redis checkpoint survives restarts.
type MemoryCheckpoint struct {
	mu   sync.Mutex
	runs map[string]map[string]struct{}
}

func NewMemoryCheckpoint() *MemoryCheckpoint {
	return &MemoryCheckpoint{runs: map[string]map[string]struct{}{}}
}

func (c *MemoryCheckpoint) MarkCompleted(_ context.Context, runID, jobID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.runs[runID]
	if !ok {
		set = map[string]struct{}{}
		c.runs[runID] = set
	}
	set[jobID] = struct{}{}
	return nil
}

func (c *MemoryCheckpoint) Completed(_ context.Context, runID string) (map[string]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]struct{}, len(c.runs[runID]))
	for id := range c.runs[runID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (c *MemoryCheckpoint) Clear(_ context.Context, runID string) error {
	c.mu.Lock()
	delete(c.runs, runID)
	c.mu.Unlock()
	return nil
}
