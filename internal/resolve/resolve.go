// Package resolve finds a tradable instrument for a bare ticker root by
// trying a fixed list of exchange-suffixed candidates in preference order.
package resolve

import (
    "context"
    "strings"

    "tickerlookup/internal/quote"
)

// suffixes are the exchange variants tried for a root ticker, in order:
// Milan, Paris, Germany, Amsterdam, London, then the bare (US) symbol.
var suffixes = []string{".MI", ".PA", ".DE", ".AS", ".L", ""}

// UnknownCurrency marks a result whose metadata fetch failed.
const UnknownCurrency = "?"

// defaultCurrency is assumed when metadata is present but carries no
// currency code. The suffix list is Europe-first, so EUR is the safe bet.
const defaultCurrency = "EUR"

// historyRange is the trailing window probed for each candidate.
const historyRange = quote.Range5D

// Outcome says how a single candidate attempt went.
type Outcome string

const (
    OutcomeMatched Outcome = "matched"
    OutcomeEmpty   Outcome = "empty"
    OutcomeFailed  Outcome = "failed"
)

// Attempt records what happened for one candidate symbol. A failed attempt
// keeps its error for diagnostics; it is never surfaced to the caller as a
// lookup failure.
type Attempt struct {
    Symbol  string  `json:"symbol"`
    Outcome Outcome `json:"outcome"`
    Err     error   `json:"-"`
}

// Result of a lookup. When Found is false every candidate came back empty
// or failed. Attempts lists the candidates in the order they were tried.
type Result struct {
    Found    bool      `json:"found"`
    Symbol   string    `json:"symbol,omitempty"`
    Name     string    `json:"name,omitempty"`
    Category Category  `json:"category,omitempty"`
    Price    float64   `json:"price,omitempty"`
    Currency string    `json:"currency,omitempty"`
    Attempts []Attempt `json:"attempts,omitempty"`
}

// Resolver looks up instruments against a quote source, one candidate at a
// time. It is safe for concurrent use when the underlying source is.
type Resolver struct {
    src quote.Source
}

func New(src quote.Source) *Resolver {
    return &Resolver{src: src}
}

// Normalize uppercases and trims a user-entered root ticker.
func Normalize(root string) string {
    return strings.ToUpper(strings.TrimSpace(root))
}

// Candidates returns the fully-qualified symbols tried for root, in order.
func Candidates(root string) []string {
    root = Normalize(root)
    out := make([]string, 0, len(suffixes))
    for _, s := range suffixes {
        out = append(out, root+s)
    }
    return out
}

// Resolve tries each candidate in order and returns on the first with
// non-empty recent history; its latest close is the result price. Failed
// and empty candidates are recorded and skipped. Resolve itself never
// fails: a dead end is Found=false, and a metadata fetch error on a
// matched candidate degrades to the raw symbol and an unknown currency.
func (r *Resolver) Resolve(ctx context.Context, root string) Result {
    var res Result
    for _, sym := range Candidates(root) {
        bars, err := r.src.History(ctx, sym, historyRange)
        if err != nil {
            res.Attempts = append(res.Attempts, Attempt{Symbol: sym, Outcome: OutcomeFailed, Err: err})
            continue
        }
        if len(bars) == 0 {
            res.Attempts = append(res.Attempts, Attempt{Symbol: sym, Outcome: OutcomeEmpty})
            continue
        }
        res.Attempts = append(res.Attempts, Attempt{Symbol: sym, Outcome: OutcomeMatched})
        res.Found = true
        res.Symbol = sym
        res.Price = bars[len(bars)-1].Close
        res.Name, res.Currency = r.describe(ctx, sym)
        res.Category = Classify(res.Name)
        return res
    }
    return res
}

// describe fetches display metadata for a matched candidate, degrading to
// the raw symbol and an unknown currency when the secondary fetch fails.
func (r *Resolver) describe(ctx context.Context, symbol string) (name, currency string) {
    p, err := r.src.Profile(ctx, symbol)
    if err != nil {
        return symbol, UnknownCurrency
    }
    name = p.LongName
    if name == "" {
        name = symbol
    }
    currency = p.Currency
    if currency == "" {
        currency = defaultCurrency
    }
    return name, currency
}
