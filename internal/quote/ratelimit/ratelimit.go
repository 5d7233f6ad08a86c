package ratelimit

import (
    "context"
    "sync"
    "time"

    "tickerlookup/internal/quote"
)

// MinInterval wraps a source and enforces a minimum time between outbound
// calls, spreading candidate probes out so the provider is less likely to
// throttle us. Callers wait until the interval has elapsed since the last
// call, or return early if the context is canceled.
type MinInterval struct {
    S        quote.Source
    Interval time.Duration

    mu   sync.Mutex
    last time.Time
}

func (m *MinInterval) History(ctx context.Context, symbol string, rng quote.Range) ([]quote.Bar, error) {
    if err := m.wait(ctx); err != nil {
        return nil, err
    }
    bars, err := m.S.History(ctx, symbol, rng)
    m.touch()
    return bars, err
}

func (m *MinInterval) Profile(ctx context.Context, symbol string) (quote.Profile, error) {
    if err := m.wait(ctx); err != nil {
        return quote.Profile{}, err
    }
    p, err := m.S.Profile(ctx, symbol)
    m.touch()
    return p, err
}

func (m *MinInterval) wait(ctx context.Context) error {
    if m.Interval <= 0 {
        return nil
    }
    m.mu.Lock()
    wait := time.Until(m.last.Add(m.Interval))
    m.mu.Unlock()
    if wait <= 0 {
        return nil
    }
    t := time.NewTimer(wait)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return ctx.Err()
    case <-t.C:
        return nil
    }
}

func (m *MinInterval) touch() {
    if m.Interval <= 0 {
        return
    }
    m.mu.Lock()
    m.last = time.Now()
    m.mu.Unlock()
}
