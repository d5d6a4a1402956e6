package domain

import (
	"time"
)

// ChannelGroup is the coarse sales channel a free-text channel description maps to.
type ChannelGroup string

const (
	ChannelWebshop    ChannelGroup = "WEBSHOP"
	ChannelHomeCenter ChannelGroup = "HOME_CENTER"
	ChannelOther      ChannelGroup = "OTHER"
)

// ChannelGroups lists every channel group in display order.
var ChannelGroups = []ChannelGroup{ChannelWebshop, ChannelHomeCenter, ChannelOther}

// Valid reports whether g is one of the known channel groups.
func (g ChannelGroup) Valid() bool {
	switch g {
	case ChannelWebshop, ChannelHomeCenter, ChannelOther:
		return true
	}
	return false
}

// RawTable is an uploaded batch exactly as read from the source file.
// Cells are untrimmed text; column roles are resolved by the normalizer.
type RawTable struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex maps header names to their position. The first occurrence wins
// when a header is repeated.
func (t *RawTable) ColumnIndex() map[string]int {
	index := make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return index
}

// ShipmentRecord is one invoice line after validation, deduplication and
// enrichment. Records are never modified once the normalizer returns them.
type ShipmentRecord struct {
	InvoiceNumber     string       `json:"invoice_number" validate:"required"`
	Brand             string       `json:"brand" validate:"required"`
	ChannelRaw        string       `json:"channel_raw"`
	ChannelGroup      ChannelGroup `json:"channel_group" validate:"required"`
	ShipDate          time.Time    `json:"ship_date" validate:"required"`
	InvoiceDate       time.Time    `json:"invoice_date" validate:"required"`
	City              string       `json:"city"`
	LeadTimeDays      int          `json:"lead_time_days" validate:"min=0"`
	EventDate         time.Time    `json:"event_date" validate:"required"`
	ShipDateDefaulted bool         `json:"ship_date_defaulted"`
}

// NormalizationReport counts what happened to every input row so callers can
// render diagnostics. RowsRead = Duplicates + InvalidDates + BrandFiltered + RowsFinal.
type NormalizationReport struct {
	RowsRead           int      `json:"rows_read"`
	Duplicates         int      `json:"duplicates"`
	InvalidDates       int      `json:"invalid_dates"`
	BrandFiltered      int      `json:"brand_filtered"`
	ShipDatesDefaulted int      `json:"ship_dates_defaulted"`
	RowsFinal          int      `json:"rows_final"`
	EmptyInput         bool     `json:"empty_input"`
	Brands             []string `json:"brands"`
}
