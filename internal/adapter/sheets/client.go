package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/adapter/sheet"
	domainErrors "github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/errors"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

// RateLimitedError represents throttling by the sheets service.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("sheets rate limited, retry after %s", e.RetryAfter)
}

// Unwrap classifies throttling as an unavailable store.
func (e RateLimitedError) Unwrap() error {
	return domainErrors.ErrStoreUnavailable
}

// HTTPClient reads and overwrites one sheet through a values API.
type HTTPClient struct {
	baseURL    *url.URL
	sheet      string
	httpClient *http.Client
	logger     *slog.Logger
}

// valueRange mirrors the JSON payload of the values endpoint.
type valueRange struct {
	Values [][]string `json:"values"`
}

// rawRange is the pulled payload. Cells are kept raw because the service
// returns numbers, booleans and nulls as well as strings.
type rawRange struct {
	Values []json.RawMessage `json:"values"`
}

// NewHTTPClient creates sheets client. timeout bounds every request.
func NewHTTPClient(baseURL, sheetName string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse sheets url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("sheets url must be absolute")
	}
	if sheetName == "" {
		return nil, fmt.Errorf("sheet name must be provided")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		sheet:   sheetName,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *HTTPClient) endpoint() string {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/sheets/", c.sheet, "values")
	return endpoint.String()
}

// Pull reads every row of the sheet. A leading header row is dropped.
func (c *HTTPClient) Pull(ctx context.Context) ([]model.RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, "pull")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domainErrors.ErrStoreUnavailable, err)
	}
	var data rawRange
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrDecode, err)
	}

	rows := make([]model.RawRow, 0, len(data.Values))
	for i, raw := range data.Values {
		row, err := decodeRow(raw)
		if err != nil {
			c.logger.Warn("skipping malformed sheet row", slog.Int("row", i), slog.String("error", err.Error()))
			continue
		}
		if i == 0 && sheet.IsHeader(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRow(raw json.RawMessage) (model.RawRow, error) {
	var cells []json.RawMessage
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, err
	}
	row := make(model.RawRow, len(cells))
	for i, cell := range cells {
		row[i] = cellText(cell)
	}
	return row, nil
}

// cellText renders one cell as the text the row codec expects. Null becomes
// empty, numbers keep their decimal form, anything unrecognized is passed
// through verbatim for the codec to default.
func cellText(cell json.RawMessage) string {
	cell = bytes.TrimSpace(cell)
	if len(cell) == 0 || string(cell) == "null" {
		return ""
	}
	switch cell[0] {
	case '"':
		var s string
		if err := json.Unmarshal(cell, &s); err == nil {
			return s
		}
	case 't', 'f':
		if b, err := strconv.ParseBool(string(cell)); err == nil {
			return strconv.FormatBool(b)
		}
	default:
		if d, err := decimal.NewFromString(string(cell)); err == nil {
			return d.String()
		}
	}
	return string(cell)
}

// Push overwrites the sheet with a header followed by rows.
func (c *HTTPClient) Push(ctx context.Context, rows []model.RawRow) error {
	payload := valueRange{Values: make([][]string, 0, len(rows)+1)}
	payload.Values = append(payload.Values, sheet.Header())
	for _, row := range rows {
		payload.Values = append(payload.Values, row)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	default:
		return c.statusError(resp, "push")
	}
}

func (c *HTTPClient) statusError(resp *http.Response, op string) error {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return RateLimitedError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case http.StatusConflict, http.StatusPreconditionFailed, http.StatusUnprocessableEntity:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("sheets write rejected", slog.String("op", op), slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("%w: %s", domainErrors.ErrWriteRejected, resp.Status)
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("sheets request failed", slog.String("op", op), slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("%w: %s", domainErrors.ErrStoreUnavailable, resp.Status)
	}
}

// IsRateLimited extracts the retry hint from err.
func IsRateLimited(err error) (time.Duration, bool) {
	var rl RateLimitedError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
