package domain

import "time"

// Domain contains core models shared by the dashboard and the collector.

const (
	DefaultSource = "No Source"
	DefaultTitle  = "No Title"
	DefaultLink   = "No Link"
)

// ArticleRecord is a single search result card.
type ArticleRecord struct {
	ID          string              `json:"id"`
	Source      string              `json:"source"`
	Title       string              `json:"title"`
	Link        string              `json:"link"`
	Thumbnail   Optional[string]    `json:"thumbnail"`
	Date        Optional[time.Time] `json:"date"`
	Description string              `json:"description,omitempty"`
}

// NewArticleRecord returns a record with every field at its documented default.
func NewArticleRecord() ArticleRecord {
	return ArticleRecord{
		Source: DefaultSource,
		Title:  DefaultTitle,
		Link:   DefaultLink,
	}
}

// HasLink reports whether the record carries a real link rather than the default.
func (a ArticleRecord) HasLink() bool {
	return a.Link != "" && a.Link != DefaultLink
}

// FreightRate is one row of the freight-rate table. Rate is absent when the
// feed has no usable dv20rate for the lane.
type FreightRate struct {
	OriginName      string            `json:"name_o"`
	DestinationName string            `json:"name_d"`
	Rate            Optional[float64] `json:"dv20rate"`
}

// Point is a single dated observation. Value is absent (JSON null) when the
// column had no number on that date.
type Point struct {
	Date  time.Time         `json:"date"`
	Value Optional[float64] `json:"value"`
}

// Series is a named time series (SCFI sub-index, trade lane). All series of a
// chart share the same dates, index for index.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Category is a bar chart category (a port) with one value per column.
type Category struct {
	Name   string             `json:"name"`
	Values map[string]float64 `json:"values"`
}
