package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultQuoteURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// StockTool fetches the latest market price for a ticker symbol
type StockTool struct {
	baseURL    string
	httpClient *http.Client
}

// NewStockTool creates the get_stock_price capability
func NewStockTool() *StockTool {
	return &StockTool{
		baseURL:    defaultQuoteURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *StockTool) Name() string { return "get_stock_price" }

func (t *StockTool) Description() string {
	return "Get the current stock price for a given ticker symbol."
}

func (t *StockTool) Schema() Schema {
	return Schema{Fields: []Field{
		{Name: "ticker", Type: "string", Description: "The stock ticker symbol (e.g., 'AAPL')"},
	}}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				Currency           string  `json:"currency"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

func (t *StockTool) Execute(args any) string {
	coerced, err := t.Schema().Coerce(args)
	if err != nil {
		return errorText("validating arguments", err)
	}
	ticker := strings.ToUpper(strings.TrimSpace(argString(coerced, "ticker")))

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	price, currency, err := t.fetchPrice(ctx, ticker)
	if err != nil || price == 0 {
		// Retry with Indian exchange suffixes before giving up
		for _, suffix := range []string{".NS", ".BO"} {
			p, c, retryErr := t.fetchPrice(ctx, ticker+suffix)
			if retryErr == nil && p != 0 {
				price, currency = p, c
				ticker += suffix
				break
			}
		}
	}

	if price == 0 {
		return fmt.Sprintf("Could not fetch price for %s. Check if the ticker is correct.", ticker)
	}
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("The current price of %s is %g %s.", ticker, price, currency)
}

func (t *StockTool) fetchPrice(ctx context.Context, ticker string) (float64, string, error) {
	reqURL := fmt.Sprintf("%s/%s?interval=1d&range=1d", t.baseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; VeriVerse/0.1)")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("fetch quote: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("quote API status %d", resp.StatusCode)
	}

	var parsed chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, "", fmt.Errorf("decode quote: %w", err)
	}
	if len(parsed.Chart.Result) == 0 {
		return 0, "", fmt.Errorf("no quote data for %s", ticker)
	}

	meta := parsed.Chart.Result[0].Meta
	return meta.RegularMarketPrice, meta.Currency, nil
}
