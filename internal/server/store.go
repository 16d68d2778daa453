package server

import (
	"fmt"
	"sync"

	"github.com/ironsheep/edge-detect-mcp/internal/edge"
	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

// storedDetection is the state kept between image_edge_detect and the tools
// that post-process its gradient.
type storedDetection struct {
	kernel   string
	source   *pixel.Buffer
	gradient *edge.GradientMap
}

// gradientStore maps an image path to its most recent detection.
type gradientStore struct {
	mu      sync.RWMutex
	entries map[string]*storedDetection
}

func newGradientStore() *gradientStore {
	return &gradientStore{entries: make(map[string]*storedDetection)}
}

func (g *gradientStore) put(path string, d *storedDetection) {
	g.mu.Lock()
	g.entries[path] = d
	g.mu.Unlock()
}

// get returns the stored detection for path, or ErrPreconditionNotMet if
// edge detection has not been run on it.
func (g *gradientStore) get(path string) (*storedDetection, error) {
	g.mu.RLock()
	d, ok := g.entries[path]
	g.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: run image_edge_detect on %s first", edge.ErrPreconditionNotMet, path)
	}
	return d, nil
}

func (g *gradientStore) evict(path string) {
	g.mu.Lock()
	delete(g.entries, path)
	g.mu.Unlock()
}

func (g *gradientStore) clear() {
	g.mu.Lock()
	g.entries = make(map[string]*storedDetection)
	g.mu.Unlock()
}
