package yahoo

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"tickerlookup/internal/quote"
)

// maxProfileBody caps how much of the quoteSummary payload is read.
const maxProfileBody = 1 << 20

// Profile retrieves descriptive metadata (long name, currency) for symbol
// from the quoteSummary price module. The payload shape varies by
// instrument type, so fields are extracted leniently.
func (c *Client) Profile(ctx context.Context, symbol string) (quote.Profile, error) {
	query := maps.Clone(c.query)
	if query == nil {
		query = url.Values{}
	}
	query.Set("modules", "price")

	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.baseURL, url.PathEscape(symbol), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return quote.Profile{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return quote.Profile{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusTooManyRequests:
		return quote.Profile{}, fmt.Errorf("rate limited")

	default:
		return quote.Profile{}, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxProfileBody))
	if err != nil {
		return quote.Profile{}, fmt.Errorf("reading summary response: %w", err)
	}

	price := gjson.GetBytes(body, "quoteSummary.result.0.price")
	if !price.Exists() {
		if msg := gjson.GetBytes(body, "quoteSummary.error.description"); msg.Exists() {
			return quote.Profile{}, fmt.Errorf("summary error: %s", msg.String())
		}
		return quote.Profile{}, fmt.Errorf("no price module for %s", symbol)
	}

	profile := quote.Profile{Symbol: symbol}
	profile.LongName = price.Get("longName").String()
	if profile.LongName == "" {
		profile.LongName = price.Get("shortName").String()
	}
	profile.Currency = price.Get("currency").String()
	return profile, nil
}
