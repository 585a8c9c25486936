package econdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mtl-news/maritime-desk/internal/domain"
	"github.com/mtl-news/maritime-desk/internal/metrics"
)

// ChartKind selects how a chart is drawn.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
)

// Chart is a render-ready description of one widget.
type Chart struct {
	Kind       ChartKind         `json:"kind"`
	Title      string            `json:"title"`
	XLabel     string            `json:"x_label"`
	YLabel     string            `json:"y_label"`
	Stacked    bool              `json:"stacked"`
	XTickEvery int               `json:"x_tick_every,omitempty"`
	Categories []domain.Category `json:"categories,omitempty"`
	Series     []domain.Series   `json:"series,omitempty"`
}

const (
	dateColumn = "Date"
	nameColumn = "name"
)

var errNoPlots = errors.New("response has no plots")

type plotsEnvelope struct {
	Plots []struct {
		Data []map[string]any `json:"data"`
	} `json:"plots"`
}

// decodePlotRows returns the rows of the first plot in the envelope.
func decodePlotRows(body []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var env plotsEnvelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode plots: %w", err)
	}
	if len(env.Plots) == 0 {
		return nil, errNoPlots
	}
	return env.Plots[0].Data, nil
}

// PortComparison fetches the top-port comparison as bar categories.
func (c *Client) PortComparison(ctx context.Context) domain.Result[Chart] {
	return c.fetchChart(ctx, FeedPortComparison, PortComparisonPath, func(rows []map[string]any) Chart {
		return Chart{
			Kind:       ChartBar,
			Title:      "Top Port Comparison (June 24 vs June 23)",
			XLabel:     "Port",
			YLabel:     "Thousand TEU",
			Categories: categoriesFromRows(rows),
		}
	})
}

// SCFI fetches the Shanghai Containerized Freight Index sub-indices.
func (c *Client) SCFI(ctx context.Context) domain.Result[Chart] {
	return c.fetchChart(ctx, FeedSCFI, SCFIPath, func(rows []map[string]any) Chart {
		return Chart{
			Kind:   ChartLine,
			Title:  "Shanghai Containerized Freight Index (SCFI)",
			XLabel: "Date",
			YLabel: "SCFI Value",
			Series: seriesFromRows(rows),
		}
	})
}

// GlobalTrade fetches weekly global exports per lane as stacked bars.
func (c *Client) GlobalTrade(ctx context.Context) domain.Result[Chart] {
	return c.fetchChart(ctx, FeedGlobalTrade, GlobalTradePath, func(rows []map[string]any) Chart {
		return Chart{
			Kind:       ChartBar,
			Title:      "Global exports (TEU by week)",
			XLabel:     "Year",
			YLabel:     "TEU",
			Stacked:    true,
			XTickEvery: 52,
			Series:     seriesFromRows(rows),
		}
	})
}

func (c *Client) fetchChart(ctx context.Context, feed, path string, build func([]map[string]any) Chart) domain.Result[Chart] {
	started := time.Now()

	body, err := c.get(ctx, feed, path, nil)
	if err != nil {
		return domain.Empty[Chart](c.fail(feed, started, metrics.StatusError, err))
	}

	rows, err := decodePlotRows(body)
	if err != nil {
		status := metrics.StatusError
		if errors.Is(err, errNoPlots) {
			status = metrics.StatusEmpty
		}
		return domain.Empty[Chart](c.fail(feed, started, status, fmt.Errorf("%s: %w", feed, err)))
	}

	chart := build(rows)
	if len(chart.Categories) == 0 && len(chart.Series) == 0 {
		return domain.Empty[Chart](c.fail(feed, started, metrics.StatusEmpty, fmt.Errorf("%s: plot has no usable rows", feed)))
	}

	metrics.RecordFetch(feed, metrics.StatusOK, started)
	return domain.Ok(chart)
}

// categoriesFromRows keeps row order; each numeric column becomes a value.
func categoriesFromRows(rows []map[string]any) []domain.Category {
	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		name := text(row[nameColumn])
		if name == "" {
			continue
		}
		values := make(map[string]float64, len(row))
		for col, cell := range row {
			if col == nameColumn {
				continue
			}
			if v, ok := number(cell); ok {
				values[col] = v
			}
		}
		if len(values) == 0 {
			continue
		}
		out = append(out, domain.Category{Name: name, Values: values})
	}
	return out
}

// seriesFromRows turns date-keyed rows into one series per column, sorted by name.
// Every series is laid out on the same sorted date axis; a column with no number
// on a date gets an absent value there instead of being shortened. Rows without a
// parseable date are skipped, as are columns that never hold a number.
func seriesFromRows(rows []map[string]any) []domain.Series {
	values := make(map[string]map[int64]float64)
	seen := make(map[int64]time.Time)
	for _, row := range rows {
		date, ok := parseDate(row[dateColumn])
		if !ok {
			continue
		}
		key := date.Unix()
		seen[key] = date
		for col, cell := range row {
			if col == dateColumn {
				continue
			}
			v, ok := number(cell)
			if !ok {
				continue
			}
			if values[col] == nil {
				values[col] = make(map[int64]float64)
			}
			values[col][key] = v
		}
	}

	axis := make([]int64, 0, len(seen))
	for key := range seen {
		axis = append(axis, key)
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i] < axis[j] })

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.Series, 0, len(names))
	for _, name := range names {
		points := make([]domain.Point, 0, len(axis))
		for _, key := range axis {
			p := domain.Point{Date: seen[key], Value: domain.None[float64]()}
			if v, ok := values[name][key]; ok {
				p.Value = domain.Some(v)
			}
			points = append(points, p)
		}
		out = append(out, domain.Series{Name: name, Points: points})
	}
	return out
}
