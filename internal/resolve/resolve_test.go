package resolve

import (
    "context"
    "errors"
    "reflect"
    "testing"

    "tickerlookup/internal/quote"
)

// fakeSource scripts per-symbol history and profile responses and records
// which symbols were asked for, in order.
type fakeSource struct {
    history map[string][]quote.Bar
    histErr map[string]error
    profile map[string]quote.Profile
    profErr map[string]error
    calls   []string
}

func (f *fakeSource) History(_ context.Context, symbol string, _ quote.Range) ([]quote.Bar, error) {
    f.calls = append(f.calls, symbol)
    if err := f.histErr[symbol]; err != nil {
        return nil, err
    }
    return f.history[symbol], nil
}

func (f *fakeSource) Profile(_ context.Context, symbol string) (quote.Profile, error) {
    if err := f.profErr[symbol]; err != nil {
        return quote.Profile{}, err
    }
    if p, ok := f.profile[symbol]; ok {
        return p, nil
    }
    return quote.Profile{Symbol: symbol}, nil
}

func bars(closes ...float64) []quote.Bar {
    out := make([]quote.Bar, 0, len(closes))
    for _, c := range closes {
        out = append(out, quote.Bar{Close: c})
    }
    return out
}

func TestResolve_FirstMatchWins_LaterCandidatesNotQueried(t *testing.T) {
    src := &fakeSource{
        history: map[string][]quote.Bar{
            "MWRD.DE": bars(10.10, 10.25),
        },
        profile: map[string]quote.Profile{
            "MWRD.DE": {Symbol: "MWRD.DE", LongName: "Amundi MSCI World UCITS ETF", Currency: "EUR"},
        },
    }

    res := New(src).Resolve(context.Background(), "MWRD")
    if !res.Found {
        t.Fatalf("want found, got %+v", res)
    }
    if res.Symbol != "MWRD.DE" {
        t.Fatalf("want MWRD.DE, got %s", res.Symbol)
    }
    if res.Price != 10.25 {
        t.Fatalf("want latest close 10.25, got %v", res.Price)
    }
    wantCalls := []string{"MWRD.MI", "MWRD.PA", "MWRD.DE"}
    if !reflect.DeepEqual(src.calls, wantCalls) {
        t.Fatalf("want calls %v, got %v", wantCalls, src.calls)
    }
}

func TestResolve_Idempotent(t *testing.T) {
    src := &fakeSource{
        history: map[string][]quote.Bar{"MWRD.MI": bars(9.99)},
        profile: map[string]quote.Profile{
            "MWRD.MI": {Symbol: "MWRD.MI", LongName: "Amundi MSCI World UCITS ETF", Currency: "EUR"},
        },
    }
    r := New(src)

    first := r.Resolve(context.Background(), "MWRD")
    second := r.Resolve(context.Background(), "MWRD")
    if !reflect.DeepEqual(first, second) {
        t.Fatalf("results differ:\n%+v\n%+v", first, second)
    }
}

func TestResolve_MetadataFailureDegradesGracefully(t *testing.T) {
    src := &fakeSource{
        history: map[string][]quote.Bar{"MWRD.MI": bars(9.99)},
        profErr: map[string]error{"MWRD.MI": errors.New("quoteSummary down")},
    }

    res := New(src).Resolve(context.Background(), "MWRD")
    if !res.Found {
        t.Fatalf("metadata failure must not abort the lookup: %+v", res)
    }
    if res.Name != "MWRD.MI" {
        t.Fatalf("want symbol as fallback name, got %q", res.Name)
    }
    if res.Currency != UnknownCurrency {
        t.Fatalf("want unknown currency sentinel, got %q", res.Currency)
    }
}

func TestResolve_MissingCurrencyDefaultsToEUR(t *testing.T) {
    src := &fakeSource{
        history: map[string][]quote.Bar{"MWRD.MI": bars(9.99)},
        profile: map[string]quote.Profile{
            "MWRD.MI": {Symbol: "MWRD.MI", LongName: "Amundi MSCI World UCITS ETF"},
        },
    }

    res := New(src).Resolve(context.Background(), "MWRD")
    if res.Currency != "EUR" {
        t.Fatalf("want EUR default, got %q", res.Currency)
    }
}

func TestResolve_AllEmptyIsNotFound(t *testing.T) {
    src := &fakeSource{}

    res := New(src).Resolve(context.Background(), "MWRD")
    if res.Found {
        t.Fatalf("want not found, got %+v", res)
    }
    if len(src.calls) != 6 {
        t.Fatalf("want all 6 candidates tried, got %v", src.calls)
    }
    if len(res.Attempts) != 6 {
        t.Fatalf("want 6 attempts recorded, got %d", len(res.Attempts))
    }
    for _, a := range res.Attempts {
        if a.Outcome != OutcomeEmpty {
            t.Fatalf("want all attempts empty, got %+v", a)
        }
    }
}

func TestResolve_DistinguishesFailedFromEmptyAttempts(t *testing.T) {
    src := &fakeSource{
        histErr: map[string]error{"MWRD.MI": errors.New("connection reset")},
        history: map[string][]quote.Bar{"MWRD.DE": bars(10.25)},
    }

    res := New(src).Resolve(context.Background(), "MWRD")
    if !res.Found || res.Symbol != "MWRD.DE" {
        t.Fatalf("unexpected result: %+v", res)
    }
    want := []Outcome{OutcomeFailed, OutcomeEmpty, OutcomeMatched}
    if len(res.Attempts) != len(want) {
        t.Fatalf("want %d attempts, got %+v", len(want), res.Attempts)
    }
    for i, a := range res.Attempts {
        if a.Outcome != want[i] {
            t.Fatalf("attempt %d: want %s, got %s", i, want[i], a.Outcome)
        }
    }
    if res.Attempts[0].Err == nil {
        t.Fatal("failed attempt should keep its error")
    }
}

func TestResolve_ErrorsNeverEscape(t *testing.T) {
    src := &fakeSource{
        histErr: map[string]error{
            "MWRD.MI": errors.New("boom"),
            "MWRD.PA": errors.New("boom"),
            "MWRD.DE": errors.New("boom"),
            "MWRD.AS": errors.New("boom"),
            "MWRD.L":  errors.New("boom"),
            "MWRD":    errors.New("boom"),
        },
    }

    res := New(src).Resolve(context.Background(), "MWRD")
    if res.Found {
        t.Fatalf("want not found, got %+v", res)
    }
}

func TestCandidates_OrderAndNormalization(t *testing.T) {
    want := []string{"MWRD.MI", "MWRD.PA", "MWRD.DE", "MWRD.AS", "MWRD.L", "MWRD"}
    for _, input := range []string{"MWRD", " mwrd ", "mWrD\n"} {
        if got := Candidates(input); !reflect.DeepEqual(got, want) {
            t.Fatalf("Candidates(%q) = %v, want %v", input, got, want)
        }
    }
}
