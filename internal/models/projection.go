package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// OffsetLabel formats a scenario day offset for display, e.g. "30d".
func OffsetLabel(days int) string {
	return fmt.Sprintf("%dd", days)
}

// ChartPoint is one scenario offset in the chart series. Values maps a
// contract's SeriesKey to its ROI percentage rounded to 2 decimals.
type ChartPoint struct {
	Offset string
	Days   int
	Values map[string]float64
}

// MarshalJSON flattens the point so charting components can key series by
// field name: {"offset":"30d","days":30,"Call (340)":12.5}. NaN and Inf
// values are written as null.
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(p.Values)+2)
	for k, v := range p.Values {
		flat[k] = finiteOrNil(v)
	}
	flat["offset"] = p.Offset
	flat["days"] = p.Days
	return json.Marshal(flat)
}

// ContractDetail is one row of the grouped table.
type ContractDetail struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Strike float64 `json:"strike"`
	// EstimatedPrice is the raw theoretical value, kept for callers that
	// want more than the 2dp strings.
	EstimatedPrice float64 `json:"estimated_price"`
	ROI            string  `json:"roi"`
	Profit         string  `json:"profit"`
}

// MarshalJSON writes a non-finite EstimatedPrice as null.
func (d ContractDetail) MarshalJSON() ([]byte, error) {
	type detail ContractDetail
	return json.Marshal(struct {
		detail
		EstimatedPrice interface{} `json:"estimated_price"`
	}{
		detail:         detail(d),
		EstimatedPrice: finiteOrNil(d.EstimatedPrice),
	})
}

func finiteOrNil(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// OffsetGroup groups the per-contract details of one scenario offset.
type OffsetGroup struct {
	Offset  string           `json:"offset"`
	Days    int              `json:"days"`
	Details []ContractDetail `json:"details"`
}

// Projection is the full output of a scenario projection run.
type Projection struct {
	Chart           []ChartPoint  `json:"chart"`
	Table           []OffsetGroup `json:"table"`
	VolatilityCrush bool          `json:"volatility_crush"`
}
