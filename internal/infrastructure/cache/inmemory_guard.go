package cache

import (
	"context"
	"sync"
	"time"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/google/uuid"
)

const defaultSweepInterval = time.Minute

type guardEntry struct {
	token  string
	expiry time.Time
}

// InMemoryRegistrationGuard holds registration keys in process memory.
// Suitable for a single instance; replicas do not see each other's keys.
type InMemoryRegistrationGuard struct {
	mu        sync.Mutex
	held      map[string]guardEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRegistrationGuard creates a guard and starts its expiry sweeper.
func NewInMemoryRegistrationGuard() *InMemoryRegistrationGuard {
	return newInMemoryRegistrationGuard(defaultSweepInterval)
}

func newInMemoryRegistrationGuard(sweep time.Duration) *InMemoryRegistrationGuard {
	g := &InMemoryRegistrationGuard{
		held:     make(map[string]guardEntry),
		stopChan: make(chan struct{}),
	}
	g.wg.Add(1)
	go g.sweepLoop(sweep)
	return g
}

// Acquire takes key for ttl. It returns false while an unexpired holder exists.
func (g *InMemoryRegistrationGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if e, ok := g.held[key]; ok && now.Before(e.expiry) {
		return "", false, nil
	}
	token := uuid.NewString()
	g.held[key] = guardEntry{token: token, expiry: now.Add(ttl)}
	return token, true, nil
}

// Release frees key if token still holds it. A key that expired and was taken by
// another holder is left alone.
func (g *InMemoryRegistrationGuard) Release(ctx context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.held[key]; ok && e.token == token {
		delete(g.held, key)
	}
	return nil
}

// Close stops the sweeper. Safe to call more than once.
func (g *InMemoryRegistrationGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

// Size returns the number of keys currently tracked, expired or not
func (g *InMemoryRegistrationGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.held)
}

func (g *InMemoryRegistrationGuard) sweepLoop(interval time.Duration) {
	defer g.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

func (g *InMemoryRegistrationGuard) sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for key, e := range g.held {
		if !now.Before(e.expiry) {
			delete(g.held, key)
		}
	}
}

var _ handle.RegistrationGuard = (*InMemoryRegistrationGuard)(nil)
