package main

import (
    "bufio"
    "context"
    "flag"
    "fmt"
    "log"
    "os"
    "strings"
    "time"

    "tickerlookup/internal/config"
    "tickerlookup/internal/httpx"
    "tickerlookup/internal/quote"
    "tickerlookup/internal/quote/ratelimit"
    "tickerlookup/internal/quote/yahoo"
    "tickerlookup/internal/resolve"
)

func main() {
    var symbol string
    var configPath string
    var timeout int

    flag.StringVar(&symbol, "symbol", getenv("SYMBOL", ""), "ticker root to look up; prompts on stdin when empty")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
    flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 0), "request timeout seconds (overrides config)")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if timeout > 0 { cfg.Server.RequestTimeoutSec = timeout }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
    src, err := buildSource(cfg, httpClient)
    if err != nil { log.Fatalf("quote source: %v", err) }

    if symbol == "" {
        symbol = promptTicker(os.Stdin)
    }
    if symbol == "" {
        log.Fatal("no ticker given")
    }

    fmt.Printf("🔎 Looking up %s...\n", resolve.Normalize(symbol))
    res := resolve.New(src).Resolve(context.Background(), symbol)
    fmt.Print(formatReport(res))
}

// buildSource wires the Yahoo client plus the optional pacing decorator.
// The one-shot CLI does no repeat lookups, so the history cache stays out.
func buildSource(cfg config.Config, httpClient *httpx.Client) (quote.Source, error) {
    yc, err := yahoo.NewClient(
        yahoo.WithBaseURL(cfg.Quotes.Endpoint),
        yahoo.WithHTTPClient(httpClient),
    )
    if err != nil { return nil, err }
    var src quote.Source = yc
    if cfg.Quotes.MinRequestIntervalSec > 0 {
        src = &ratelimit.MinInterval{S: src, Interval: time.Duration(cfg.Quotes.MinRequestIntervalSec) * time.Second}
    }
    return src, nil
}

func promptTicker(in *os.File) string {
    fmt.Print("Ticker (e.g. MWRD): ")
    line, err := bufio.NewReader(in).ReadString('\n')
    if err != nil && line == "" {
        return ""
    }
    return strings.TrimSpace(line)
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        var x int
        _, _ = fmt.Sscanf(v, "%d", &x)
        if x != 0 { return x }
    }
    return def
}
