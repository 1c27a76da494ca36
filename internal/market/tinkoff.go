package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"tinkoff-assistant/internal/models"
)

const (
	prodBaseURL    = "https://invest-public-api.tinkoff.ru/rest"
	sandboxBaseURL = "https://sandbox-invest-public-api.tinkoff.ru/rest"

	servicePrefix = "/tinkoff.public.invest.api.contract.v1."

	candleInterval15Min = "CANDLE_INTERVAL_15_MIN"
)

// TinkoffClient implements Provider using the Tinkoff Invest REST API.
type TinkoffClient struct {
	token   string
	baseURL string
	client  *http.Client
}

// TinkoffConfig holds Tinkoff client configuration.
type TinkoffConfig struct {
	Token   string
	Sandbox bool
	Timeout time.Duration
}

// NewTinkoffClient creates a new Tinkoff Invest API client.
func NewTinkoffClient(cfg TinkoffConfig) *TinkoffClient {
	baseURL := prodBaseURL
	if cfg.Sandbox {
		baseURL = sandboxBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TinkoffClient{
		token:   cfg.Token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// quotation is the provider's decimal representation: integer units plus
// billionths of a unit.
type quotation struct {
	Units string `json:"units"`
	Nano  int64  `json:"nano"`
}

func (q quotation) Float64() float64 {
	units, _ := strconv.ParseInt(q.Units, 10, 64)
	return float64(units) + float64(q.Nano)/1e9
}

type sharesResponse struct {
	Instruments []struct {
		FIGI   string `json:"figi"`
		Ticker string `json:"ticker"`
		Name   string `json:"name"`
	} `json:"instruments"`
}

type candlesResponse struct {
	Candles []struct {
		Open   quotation `json:"open"`
		High   quotation `json:"high"`
		Low    quotation `json:"low"`
		Close  quotation `json:"close"`
		Volume string    `json:"volume"`
		Time   time.Time `json:"time"`
	} `json:"candles"`
}

type lastPricesResponse struct {
	LastPrices []struct {
		FIGI  string    `json:"figi"`
		Price quotation `json:"price"`
	} `json:"lastPrices"`
}

// Shares returns the provider's share catalogue.
func (c *TinkoffClient) Shares(ctx context.Context) ([]models.Instrument, error) {
	var resp sharesResponse
	req := map[string]string{"instrumentStatus": "INSTRUMENT_STATUS_BASE"}
	if err := c.call(ctx, "InstrumentsService/Shares", req, &resp); err != nil {
		return nil, err
	}

	instruments := make([]models.Instrument, len(resp.Instruments))
	for i, s := range resp.Instruments {
		instruments[i] = models.Instrument{
			FIGI:   s.FIGI,
			Ticker: s.Ticker,
			Name:   s.Name,
		}
	}
	return instruments, nil
}

// Candles returns 15-minute candles for the instrument in [from, to].
// Provider ordering is preserved as-is.
func (c *TinkoffClient) Candles(ctx context.Context, figi string, from, to time.Time) ([]models.Candle, error) {
	var resp candlesResponse
	req := map[string]string{
		"figi":     figi,
		"from":     from.UTC().Format(time.RFC3339),
		"to":       to.UTC().Format(time.RFC3339),
		"interval": candleInterval15Min,
	}
	if err := c.call(ctx, "MarketDataService/GetCandles", req, &resp); err != nil {
		return nil, err
	}

	candles := make([]models.Candle, len(resp.Candles))
	for i, raw := range resp.Candles {
		volume, _ := strconv.ParseInt(raw.Volume, 10, 64)
		candles[i] = models.Candle{
			Timestamp: raw.Time,
			Open:      raw.Open.Float64(),
			High:      raw.High.Float64(),
			Low:       raw.Low.Float64(),
			Close:     raw.Close.Float64(),
			Volume:    volume,
		}
	}
	return candles, nil
}

// LastPrice returns the latest traded price for the instrument.
func (c *TinkoffClient) LastPrice(ctx context.Context, figi string) (float64, error) {
	var resp lastPricesResponse
	req := map[string][]string{"figi": {figi}}
	if err := c.call(ctx, "MarketDataService/GetLastPrices", req, &resp); err != nil {
		return 0, err
	}
	if len(resp.LastPrices) == 0 {
		return 0, fmt.Errorf("no last price returned for %s", figi)
	}
	return resp.LastPrices[0].Price.Float64(), nil
}

func (c *TinkoffClient) call(ctx context.Context, method string, payload, target interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + servicePrefix + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("tinkoff %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("tinkoff %s: read body: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tinkoff %s: status %d, body: %s", method, resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, target); err != nil {
		return fmt.Errorf("tinkoff %s: decode: %w", method, err)
	}
	return nil
}
