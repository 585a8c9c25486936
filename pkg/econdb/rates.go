package econdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mtl-news/maritime-desk/internal/domain"
	"github.com/mtl-news/maritime-desk/internal/metrics"
	"github.com/mtl-news/maritime-desk/pkg/httpclient"
)

// NoRateDataMessage is returned when no row matches a rate lookup.
const NoRateDataMessage = "No data found for the given origin and destination."

// Freight-rate column names.
const (
	columnOrigin      = "name_o"
	columnDestination = "name_d"
	columnRate        = "dv20rate"
)

// FreightRates downloads the full freight-rate table.
func (c *Client) FreightRates(ctx context.Context) domain.Result[[]domain.FreightRate] {
	started := time.Now()

	var headers map[string]string
	if c.userAgent != "" {
		headers = map[string]string{"User-Agent": c.userAgent}
	}

	body, err := c.get(ctx, FeedFreightRates, FreightRatesPath, headers)
	if err != nil {
		return domain.Empty[[]domain.FreightRate](c.fail(FeedFreightRates, started, metrics.StatusError, err))
	}

	rows, err := decodeRates(body)
	if err != nil {
		err = fmt.Errorf("%w; body: %s", err, httpclient.Snippet(body))
		return domain.Empty[[]domain.FreightRate](c.fail(FeedFreightRates, started, metrics.StatusError, err))
	}

	metrics.RecordFetch(FeedFreightRates, metrics.StatusOK, started)
	return domain.Ok(rows)
}

// decodeRates expects a JSON list of row objects.
func decodeRates(body []byte) ([]domain.FreightRate, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode freight rates: %w", err)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of freight rates, got %s", jsonKind(raw))
	}

	rows := make([]domain.FreightRate, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rate := domain.None[float64]()
		if v, ok := number(obj[columnRate]); ok {
			rate = domain.Some(v)
		}
		rows = append(rows, domain.FreightRate{
			OriginName:      text(obj[columnOrigin]),
			DestinationName: text(obj[columnDestination]),
			Rate:            rate,
		})
	}
	return rows, nil
}

// SearchRates keeps rows whose origin and destination names contain the
// given text, case-insensitively. Matching names are returned lower-cased.
func SearchRates(rows []domain.FreightRate, origin, destination string) domain.Result[[]domain.FreightRate] {
	origin = strings.ToLower(origin)
	destination = strings.ToLower(destination)

	var out []domain.FreightRate
	for _, row := range rows {
		o := strings.ToLower(row.OriginName)
		d := strings.ToLower(row.DestinationName)
		if strings.Contains(o, origin) && strings.Contains(d, destination) {
			out = append(out, domain.FreightRate{OriginName: o, DestinationName: d, Rate: row.Rate})
		}
	}

	if len(out) == 0 {
		return domain.Empty[[]domain.FreightRate](NoRateDataMessage)
	}
	return domain.Ok(out)
}

// LookupRates downloads the table and filters it in one step.
// A failed download keeps its own reason so callers can tell the two apart.
func (c *Client) LookupRates(ctx context.Context, origin, destination string) (domain.Result[[]domain.FreightRate], error) {
	table := c.FreightRates(ctx)
	if !table.IsOk() {
		return table, fmt.Errorf("freight rate table unavailable: %s", table.Reason())
	}
	return SearchRates(table.Value(), origin, destination), nil
}
