package exporter

import (
	"leadtimecli/internal/analytics"
	"leadtimecli/pkg/contracts/domain"
)

// AssistantContextVersion is bumped whenever the document shape changes.
const AssistantContextVersion = 1

// ContextFileName is the default name of the assistant context document.
const ContextFileName = "leadtime_context.json"

// AssistantContext is the data summary handed to the analysis assistant.
// Numbers are rounded to two decimals.
type AssistantContext struct {
	SchemaVersion int              `json:"schema_version"`
	Overview      ContextOverview  `json:"overview"`
	ByBrand       []ContextBrand   `json:"by_brand"`
	ByChannel     []ContextChannel `json:"by_channel"`
	TopLeadTimes  []ContextRecord  `json:"top_lead_times"`
	Notes         []string         `json:"notes"`
}

// ContextOverview describes the whole filtered batch.
type ContextOverview struct {
	TotalRecords int      `json:"total_records"`
	PeriodStart  string   `json:"period_start,omitempty"`
	PeriodEnd    string   `json:"period_end,omitempty"`
	MeanLeadTime *float64 `json:"mean_lead_time"`
	BrandCount   int      `json:"brand_count"`
	Brands       []string `json:"brands"`
}

// ContextBrand is one brand's statistics.
type ContextBrand struct {
	Brand        string   `json:"brand"`
	TotalRecords int      `json:"total_records"`
	Mean         float64  `json:"mean"`
	Median       float64  `json:"median"`
	StdDev       *float64 `json:"std_dev"`
	Min          int      `json:"min"`
	Max          int      `json:"max"`
}

// ContextChannel is one channel group's volume and mean.
type ContextChannel struct {
	Channel      domain.ChannelGroup `json:"channel"`
	TotalRecords int                 `json:"total_records"`
	Mean         float64             `json:"mean"`
}

// ContextRecord is one of the slowest records.
type ContextRecord struct {
	InvoiceNumber string              `json:"invoice_number"`
	Brand         string              `json:"brand"`
	LeadTimeDays  int                 `json:"lead_time_days"`
	Channel       domain.ChannelGroup `json:"channel"`
	City          string              `json:"city"`
}

var contextNotes = []string{
	"Lead time counts business days (Monday to Friday) from ship date to invoice date.",
	"One day is subtracted unless the invoice was issued on a Sunday or Monday; results never go below zero.",
	"Weekends are excluded; public holidays are not.",
	"A missing ship date is replaced by the invoice date, giving a lead time of zero.",
	"Standard deviation is null for groups with a single record.",
}

// BuildAssistantContext summarizes records for the assistant. byBrand may
// include the Total row; it is left out of by_brand. topN bounds
// top_lead_times.
func BuildAssistantContext(records []domain.ShipmentRecord, byBrand []domain.SummaryRow, topN int) AssistantContext {
	brands := analytics.Brands(records)
	doc := AssistantContext{
		SchemaVersion: AssistantContextVersion,
		Overview: ContextOverview{
			TotalRecords: len(records),
			BrandCount:   len(brands),
			Brands:       brands,
		},
		ByBrand:      make([]ContextBrand, 0, len(byBrand)),
		ByChannel:    []ContextChannel{},
		TopLeadTimes: []ContextRecord{},
		Notes:        append([]string(nil), contextNotes...),
	}

	if start, end, ok := analytics.Period(records); ok {
		doc.Overview.PeriodStart = start.Format(domain.DayLayout)
		doc.Overview.PeriodEnd = end.Format(domain.DayLayout)
		mean := round2(analytics.Mean(records))
		doc.Overview.MeanLeadTime = &mean
	}

	for _, row := range byBrand {
		if row.Key.Total {
			continue
		}
		entry := ContextBrand{
			Brand:        row.Key.Brand,
			TotalRecords: row.Count,
			Mean:         round2(row.Mean),
			Median:       round2(row.Median),
			Min:          row.Min,
			Max:          row.Max,
		}
		if row.StdDev.Defined() {
			std := round2(float64(row.StdDev))
			entry.StdDev = &std
		}
		doc.ByBrand = append(doc.ByBrand, entry)
	}

	for _, row := range analytics.AggregateBy(records, analytics.ByChannel) {
		doc.ByChannel = append(doc.ByChannel, ContextChannel{
			Channel:      row.Key.Channel,
			TotalRecords: row.Count,
			Mean:         round2(row.Mean),
		})
	}

	for _, r := range analytics.TopN(records, topN) {
		doc.TopLeadTimes = append(doc.TopLeadTimes, ContextRecord{
			InvoiceNumber: r.InvoiceNumber,
			Brand:         r.Brand,
			LeadTimeDays:  r.LeadTimeDays,
			Channel:       r.ChannelGroup,
			City:          r.City,
		})
	}

	return doc
}
