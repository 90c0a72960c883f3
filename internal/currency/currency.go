// Package currency converts scraped price strings into a target
// currency using the fxratesapi conversion endpoint.
package currency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultAPIURL = "https://api.fxratesapi.com"

// ErrUnknownCurrency is returned when the price string carries no
// recognized currency symbol.
var ErrUnknownCurrency = errors.New("unrecognized currency symbol in price")

// Exchanger resolves opaque scraped prices ("$12.34", "€9.99") into a
// numeric amount in the target currency.
type Exchanger struct {
	http   *resty.Client
	target string
	logger *slog.Logger
}

func New(apiURL, target string, timeout time.Duration, logger *slog.Logger) *Exchanger {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	httpClient := resty.New()
	httpClient.SetBaseURL(apiURL)
	httpClient.SetTimeout(timeout)

	return &Exchanger{
		http:   httpClient,
		target: target,
		logger: logger.With("component", "currency"),
	}
}

// Convert parses the currency symbol and amount out of a scraped price
// and asks the rates API for the converted value.
func (e *Exchanger) Convert(ctx context.Context, price string) (float64, error) {
	from, amount, err := parsePrice(price)
	if err != nil {
		return 0, err
	}

	var converted struct {
		Result float64 `json:"result"`
	}
	res, err := e.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"from":   from,
			"to":     e.target,
			"date":   time.Now().Format("2006-01-02"),
			"amount": strconv.FormatFloat(amount, 'f', -1, 64),
			"format": "json",
		}).
		SetResult(&converted).
		Get("/convert")
	if err != nil {
		return 0, fmt.Errorf("conversion request failed: %w", err)
	}
	if res.IsError() {
		return 0, fmt.Errorf("conversion request returned status %d", res.StatusCode())
	}

	return converted.Result, nil
}

func parsePrice(price string) (currency string, amount float64, err error) {
	switch {
	case strings.Contains(price, "€"):
		currency = "EUR"
		price = strings.ReplaceAll(price, "€", "")
	case strings.Contains(price, "$"):
		currency = "USD"
		price = strings.ReplaceAll(price, "$", "")
	default:
		return "", 0, ErrUnknownCurrency
	}

	amount, err = strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		return "", 0, fmt.Errorf("unparseable price amount %q: %w", price, err)
	}
	return currency, amount, nil
}
