package main

import (
    "fmt"
    "strings"

    "tickerlookup/internal/resolve"
)

// formatReport renders a lookup result as the human-readable report:
// matched symbol, display name, category tag and the latest close with
// two decimals and its currency.
func formatReport(res resolve.Result) string {
    if !res.Found {
        return "\n❌ No data found (the provider may be throttling requests).\n"
    }
    var b strings.Builder
    fmt.Fprintf(&b, "\n✅ %s\n", res.Symbol)
    fmt.Fprintf(&b, "📄 %s\n", res.Name)
    fmt.Fprintf(&b, "📂 %s %s\n", res.Category.Tag(), res.Category)
    fmt.Fprintf(&b, "💰 %.2f %s\n", res.Price, res.Currency)
    return b.String()
}
