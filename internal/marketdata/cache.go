package marketdata

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"earnings-screener/internal/interfaces"
	"earnings-screener/internal/types"
)

// CachedGateway memoizes quotes from an inner gateway on disk for a fixed
// TTL. It sits outside the deriver and orchestrator so it can be dropped or
// swapped in tests. Only successful quotes are cached; failures always hit
// the provider again on the next run.
type CachedGateway struct {
	inner    interfaces.MarketDataGateway
	cacheDir string
	ttl      time.Duration
	mu       sync.RWMutex
}

// NewCachedGateway wraps inner with a file-backed TTL cache.
func NewCachedGateway(inner interfaces.MarketDataGateway, cacheDir string, ttl time.Duration) *CachedGateway {
	if cacheDir == "" {
		cacheDir = "cache/quotes"
	}
	os.MkdirAll(cacheDir, 0755)
	return &CachedGateway{
		inner:    inner,
		cacheDir: cacheDir,
		ttl:      ttl,
	}
}

// Quote returns the cached quote for symbol when fresh, otherwise fetches
// and stores it.
func (c *CachedGateway) Quote(ctx context.Context, symbol string) (types.RawQuote, error) {
	if raw, ok := c.get(symbol); ok {
		return raw, nil
	}

	raw, err := c.inner.Quote(ctx, symbol)
	if err != nil {
		return raw, err
	}

	// Store errors are ignored; the cache is an optimization only.
	c.set(symbol, raw)
	return raw, nil
}

func (c *CachedGateway) get(symbol string) (types.RawQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var raw types.RawQuote
	path := c.entryPath(symbol)

	info, err := os.Stat(path)
	if err != nil {
		return raw, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		os.Remove(path)
		return raw, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return raw, false
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return raw, false
	}
	return raw, true
}

func (c *CachedGateway) set(symbol string, raw types.RawQuote) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(c.entryPath(symbol), data, 0644)
}

// Clear removes every cached quote.
func (c *CachedGateway) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.cacheDir)
}

// CleanupExpired removes entries older than the TTL.
func (c *CachedGateway) CleanupExpired() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > c.ttl {
			os.Remove(filepath.Join(c.cacheDir, entry.Name()))
		}
	}
	return nil
}

func (c *CachedGateway) entryPath(symbol string) string {
	hash := md5.Sum([]byte(symbol))
	return filepath.Join(c.cacheDir, fmt.Sprintf("%x.json", hash))
}
