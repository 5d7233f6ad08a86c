package resolve

import "strings"

// Category is the coarse asset class deduced from an instrument's name.
type Category string

const (
    CategoryWorldEquity Category = "World Equity"
    CategoryUSEquity    Category = "US Equity"
    CategoryFixedIncome Category = "Fixed Income"
    CategoryEmerging    Category = "Emerging Markets"
    CategoryGeneric     Category = "Generic"
)

// Tag returns the emoji label used in lookup reports.
func (c Category) Tag() string {
    switch c {
    case CategoryWorldEquity:
        return "🌍"
    case CategoryUSEquity:
        return "🇺🇸"
    case CategoryFixedIncome:
        return "🏛️"
    case CategoryEmerging:
        return "🐯"
    default:
        return "📦"
    }
}

// classifyRules are evaluated in order and the first matching rule wins.
// A slice, not a map: "MSCI WORLD EMERGING MARKETS" must land on World
// Equity, so World/Global outranks Emerging.
var classifyRules = []struct {
    keywords []string
    category Category
}{
    {[]string{"MSCI WORLD", "GLOBAL"}, CategoryWorldEquity},
    {[]string{"S&P 500", "USA"}, CategoryUSEquity},
    {[]string{"BOND"}, CategoryFixedIncome},
    {[]string{"EMERGING"}, CategoryEmerging},
}

// Classify buckets an instrument name into a Category by case-insensitive
// substring scan.
func Classify(name string) Category {
    n := strings.ToUpper(name)
    for _, rule := range classifyRules {
        for _, kw := range rule.keywords {
            if strings.Contains(n, kw) {
                return rule.category
            }
        }
    }
    return CategoryGeneric
}
