package main

import (
    "compress/gzip"
    "context"
    "encoding/json"
    "io"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "sync"
    "syscall"
    "time"

    "tickerlookup/internal/config"
    "tickerlookup/internal/httpx"
    "tickerlookup/internal/quote"
    "tickerlookup/internal/quote/cache"
    "tickerlookup/internal/quote/ratelimit"
    "tickerlookup/internal/quote/yahoo"
    "tickerlookup/internal/resolve"
)

// lookupTimeout bounds one lookup end to end: up to six history probes
// plus one metadata fetch.
const lookupTimeout = 30 * time.Second

func main() {
    cfgPath := os.Getenv("CONFIG_FILE")
    cfg, err := config.Load(cfgPath)
    if err != nil { log.Fatalf("config: %v", err) }
    port := cfg.Server.Port

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

    yc, err := yahoo.NewClient(
        yahoo.WithBaseURL(cfg.Quotes.Endpoint),
        yahoo.WithHTTPClient(httpClient),
    )
    if err != nil { log.Fatalf("yahoo client: %v", err) }

    var src quote.Source = yc
    if cfg.Quotes.MinRequestIntervalSec > 0 {
        src = &ratelimit.MinInterval{S: src, Interval: time.Duration(cfg.Quotes.MinRequestIntervalSec) * time.Second}
    }
    // Cache history per symbol so repeated lookups do not hammer the provider.
    if cfg.Quotes.CacheTTLSeconds > 0 {
        src = &cache.Source{S: src, TTL: time.Duration(cfg.Quotes.CacheTTLSeconds) * time.Second, MaxItems: cfg.Quotes.CacheMaxItems}
    }

    resolver := resolve.New(src)

    mux := http.NewServeMux()
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })
    mux.HandleFunc("/api/lookup", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        handleLookup(w, r, resolver)
    })

    srv := &http.Server{
        Addr:              ":" + port,
        Handler:           withJSONHeaders(withGzip(recoverPanic(limitBody(mux)))),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      45 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        log.Printf("server listening on :%s", port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server: %v", err)
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}

func handleLookup(w http.ResponseWriter, r *http.Request, resolver *resolve.Resolver) {
    symbol := r.URL.Query().Get("symbol")
    if strings.TrimSpace(symbol) == "" {
        http.Error(w, "missing symbol query param", http.StatusBadRequest)
        return
    }
    writeLookup(w, r.Context(), resolver, symbol)
}

func writeLookup(w http.ResponseWriter, rctx context.Context, resolver *resolve.Resolver, symbol string) {
    ctx, cancel := context.WithTimeout(rctx, lookupTimeout)
    defer cancel()

    res := resolver.Resolve(ctx, symbol)
    log.Printf("lookup %s: found=%v attempts=%d", resolve.Normalize(symbol), res.Found, len(res.Attempts))
    if !res.Found {
        w.WriteHeader(http.StatusNotFound)
    } else {
        w.WriteHeader(http.StatusOK)
    }
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(res)
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json; charset=utf-8")
        next.ServeHTTP(w, r)
    })
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
    var gzPool = sync.Pool{New: func() any {
        w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
        return w
    }}
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
            next.ServeHTTP(w, r)
            return
        }
        gz := gzPool.Get().(*gzip.Writer)
        gz.Reset(w)
        defer func() {
            _ = gz.Close()
            gz.Reset(io.Discard)
            gzPool.Put(gz)
        }()
        w.Header().Set("Content-Encoding", "gzip")
        w.Header().Add("Vary", "Accept-Encoding")
        gw := gzipResponseWriter{ResponseWriter: w, Writer: gz}
        next.ServeHTTP(gw, r)
    })
}

type gzipResponseWriter struct {
    http.ResponseWriter
    Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
    return g.Writer.Write(b)
}

// limitBody caps request body size to avoid memory abuse.
func limitBody(next http.Handler) http.Handler {
    const maxBody = 1 << 20 // 1MB
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Body != nil {
            r.Body = http.MaxBytesReader(w, r.Body, maxBody)
        }
        next.ServeHTTP(w, r)
    })
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                http.Error(w, "internal server error", http.StatusInternalServerError)
            }
        }()
        next.ServeHTTP(w, r)
    })
}
