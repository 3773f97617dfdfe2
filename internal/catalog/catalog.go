package catalog

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/verse/internal/domain"
)

// Catalog holds the reply texts currently in use.
// Readers always see a complete set: Replace swaps the whole value.
type Catalog struct {
	mu         sync.RWMutex
	texts      domain.Texts
	source     string    // file the texts came from, "" for built-ins
	lastReload time.Time // zero until the first Replace
	reloads    int
}

// New creates a catalogue serving the built-in texts.
func New() *Catalog {
	return &Catalog{texts: domain.DefaultTexts()}
}

// Replace swaps in a new set of texts loaded from source.
func (c *Catalog) Replace(texts domain.Texts, source string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.texts = texts.Merge(domain.DefaultTexts())
	c.source = source
	c.lastReload = time.Now()
	c.reloads++
}

// Texts returns the current texts. It satisfies dispatch.TextSource.
func (c *Catalog) Texts() domain.Texts {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.texts
}

// Source returns the file the current texts were loaded from.
func (c *Catalog) Source() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.source
}

// LastReload returns the time of the last successful Replace.
func (c *Catalog) LastReload() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastReload
}

// Reloads returns how many times the texts were replaced.
func (c *Catalog) Reloads() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.reloads
}
