package cache

import (
    "context"
    "sync"
    "time"

    "golang.org/x/sync/singleflight"

    "tickerlookup/internal/quote"
)

// entry stores cached history for a single symbol with expiry.
type entry struct {
    expiresAt time.Time
    bars      []quote.Bar
}

// Source caches History results per symbol for a TTL and coalesces
// concurrent refreshes of the same symbol into one upstream call.
// Empty histories are cached too, so a burst of lookups for a symbol the
// provider does not know hits the provider once. Profile calls pass through.
type Source struct {
    S        quote.Source
    TTL      time.Duration
    MaxItems int

    mu    sync.RWMutex
    items map[string]entry // key: symbol + "|" + range
    sf    singleflight.Group
}

func (c *Source) History(ctx context.Context, symbol string, rng quote.Range) ([]quote.Bar, error) {
    if c.S == nil || c.TTL <= 0 {
        return c.S.History(ctx, symbol, rng)
    }
    key := symbol + "|" + string(rng)

    c.mu.RLock()
    e, ok := c.items[key]
    c.mu.RUnlock()
    if ok && time.Now().Before(e.expiresAt) {
        return e.bars, nil
    }

    v, err, _ := c.sf.Do(key, func() (any, error) {
        bars, err := c.S.History(ctx, symbol, rng)
        if err != nil {
            return nil, err
        }
        c.store(key, bars)
        return bars, nil
    })
    if err != nil {
        // Serve stale data over failing outright when we have it.
        if ok {
            return e.bars, nil
        }
        return nil, err
    }
    return v.([]quote.Bar), nil
}

func (c *Source) Profile(ctx context.Context, symbol string) (quote.Profile, error) {
    return c.S.Profile(ctx, symbol)
}

func (c *Source) store(key string, bars []quote.Bar) {
    c.mu.Lock()
    defer c.mu.Unlock()
    if c.items == nil {
        c.items = make(map[string]entry)
    }
    c.items[key] = entry{expiresAt: time.Now().Add(c.TTL), bars: bars}
    // best-effort cap cache size: evict expired first, then arbitrary
    if c.MaxItems > 0 && len(c.items) > c.MaxItems {
        now := time.Now()
        for k, v := range c.items {
            if now.After(v.expiresAt) {
                delete(c.items, k)
            }
            if len(c.items) <= c.MaxItems {
                return
            }
        }
        for k := range c.items {
            if len(c.items) <= c.MaxItems {
                return
            }
            delete(c.items, k)
        }
    }
}
