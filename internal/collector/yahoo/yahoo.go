// Package yahoo fetches historical bars from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/quantfold/backlight/internal/collector"
	"github.com/quantfold/backlight/internal/core"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// validSymbol matches symbols like AAPL, SPY, BTC-USD, 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9]{1,10}(-[A-Za-z0-9]{1,6})?(\.[A-Za-z]{1,4})?$`)

func validateSymbol(symbol string) error {
	if symbol == "" {
		return core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("symbol cannot be empty"))
	}
	if !validSymbol.MatchString(symbol) {
		return core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("invalid symbol format: %s", symbol))
	}
	return nil
}

// Yahoo implements the Yahoo Finance provider
type Yahoo struct {
	client  *http.Client
	baseURL string
	config  collector.Config
}

// New creates a new Yahoo provider
func New() *Yahoo {
	return &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultBaseURL,
	}
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

func (y *Yahoo) Init(cfg collector.Config) error {
	y.config = cfg
	if cfg.Timeout > 0 {
		y.client.Timeout = cfg.Timeout
	}
	return nil
}

// FetchHistory fetches historical bars covering [start, end] inclusive.
// The returned series has passed integrity validation; failures map to
// SYMBOL_NOT_FOUND, NO_DATA, or PROVIDER_FAILED.
func (y *Yahoo) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) (core.PriceSeries, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?interval=%s&period1=%d&period2=%d",
		y.baseURL, symbol, toYahooInterval(interval), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("fetching history: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("symbol %s", symbol))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("decoding response: %w", err))
	}

	if result.Chart.Error != nil {
		return nil, core.WrapError(core.ErrSymbolNotFound,
			fmt.Errorf("yahoo error for %s: %s", symbol, result.Chart.Error.Description))
	}
	if len(result.Chart.Result) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("symbol %s", symbol))
	}

	r := result.Chart.Result[0]
	if len(r.Timestamp) == 0 || len(r.Indicators.Quote) == 0 {
		return nil, core.WrapError(core.ErrNoData,
			fmt.Errorf("symbol %s between %s and %s", symbol, start.Format("2006-01-02"), end.Format("2006-01-02")))
	}

	quotes := r.Indicators.Quote[0]
	series := make(core.PriceSeries, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if quotes.Open[i] == nil || quotes.High[i] == nil || quotes.Low[i] == nil ||
			quotes.Close[i] == nil || quotes.Volume[i] == nil {
			continue // bar with no traded data
		}
		series = append(series, core.Bar{
			Time:   time.Unix(int64(ts), 0).UTC(),
			Open:   *quotes.Open[i],
			High:   *quotes.High[i],
			Low:    *quotes.Low[i],
			Close:  *quotes.Close[i],
			Volume: int64(*quotes.Volume[i]),
		})
	}

	if len(series) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("symbol %s has no usable bars in range", symbol))
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	return series, nil
}

func toYahooInterval(interval string) string {
	switch interval {
	case "1m", "5m", "1h", "1d", "1wk", "1mo":
		return interval
	default:
		return "1d"
	}
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int      `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int     `json:"volume"`
}
