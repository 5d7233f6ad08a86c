package quote

import (
    "context"
    "time"
)

// Range selects how much trailing history to request from a source.
type Range string

const (
    Range1D Range = "1d"
    Range5D Range = "5d"
    Range1M Range = "1mo"
    Range3M Range = "3mo"
    Range6M Range = "6mo"
    Range1Y Range = "1y"
)

// Bar is one day's OHLCV record for a symbol.
type Bar struct {
    Time   time.Time `json:"time"`
    Open   float64   `json:"open"`
    High   float64   `json:"high"`
    Low    float64   `json:"low"`
    Close  float64   `json:"close"`
    Volume int64     `json:"volume"`
}

// Profile is descriptive metadata for a symbol.
type Profile struct {
    Symbol   string `json:"symbol"`
    LongName string `json:"long_name"`
    Currency string `json:"currency"`
}

// Source provides trailing price history and descriptive metadata.
// History returns bars oldest first. A symbol the provider does not
// recognize yields an empty history, not an error; errors mean the
// request itself failed. Profile may fail independently of History.
type Source interface {
    History(ctx context.Context, symbol string, rng Range) ([]Bar, error)
    Profile(ctx context.Context, symbol string) (Profile, error)
}
