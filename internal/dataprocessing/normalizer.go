package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/lo"

	"leadtimecli/internal/calendar"
	"leadtimecli/internal/config"
	apperrors "leadtimecli/internal/errors"
	"leadtimecli/pkg/contracts/domain"
)

// Normalizer converts a raw batch into validated, enriched shipment records.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	logger     *slog.Logger
	required   []string
	brands     map[string]struct{}
	dates      *DateParser
	classifier *ChannelClassifier
}

// NewNormalizer creates a normalizer for the given pipeline policy.
func NewNormalizer(logger *slog.Logger, cfg config.PipelineConfig) (*Normalizer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	classifier, err := NewChannelClassifier(cfg.ChannelRules)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid channel rules", err)
	}

	brands := cfg.Brands
	if len(brands) == 0 {
		brands = config.DefaultBrands
	}
	required := cfg.RequiredColumns
	if len(required) == 0 {
		required = config.RequiredColumns()
	}
	// Records are built from the fixed role columns, so each must be checked up front.
	if missing, _ := lo.Difference(config.RequiredColumns(), required); len(missing) > 0 {
		return nil, apperrors.NewConfigError("required columns must include "+strings.Join(missing, ", "), nil).
			WithContext("required_columns", required)
	}

	return &Normalizer{
		logger:   logger.With(slog.String("component", "normalizer")),
		required: append([]string(nil), required...),
		brands: lo.SliceToMap(brands, func(b string) (string, struct{}) {
			return strings.TrimSpace(b), struct{}{}
		}),
		dates:      NewDateParser(cfg.DateLayouts),
		classifier: classifier,
	}, nil
}

// columns resolves the column positions of one table.
type columns struct {
	brand, channel, ship, invoice, city, number int
}

func (c columns) cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Normalize validates table and returns the surviving records in input order.
//
// Steps run in a fixed order: required-column check, empty check, invoice
// number deduplication (first occurrence kept), date coercion, brand filter,
// then enrichment with channel group, lead time and event date.
func (n *Normalizer) Normalize(ctx context.Context, table *domain.RawTable) ([]domain.ShipmentRecord, domain.NormalizationReport, error) {
	report := domain.NormalizationReport{Brands: []string{}}
	if table == nil {
		table = &domain.RawTable{}
	}

	index := table.ColumnIndex()
	missing := lo.Filter(n.required, func(name string, _ int) bool {
		_, ok := index[name]
		return !ok
	})
	if len(missing) > 0 {
		n.logger.WarnContext(ctx, "Input rejected",
			slog.Any("missing_columns", missing))
		return nil, report, apperrors.NewSchemaError(missing)
	}

	report.RowsRead = table.Len()
	if report.RowsRead == 0 {
		report.EmptyInput = true
		n.logger.InfoContext(ctx, "Input has no data rows")
		return []domain.ShipmentRecord{}, report, nil
	}

	col := columns{
		brand:   lookup(index, config.ColumnBrand),
		channel: lookup(index, config.ColumnChannel),
		ship:    lookup(index, config.ColumnShipDate),
		invoice: lookup(index, config.ColumnInvoiceDate),
		city:    lookup(index, config.ColumnCity),
		number:  lookup(index, config.ColumnInvoiceNumber),
	}

	seen := make(map[string]struct{}, len(table.Rows))
	records := make([]domain.ShipmentRecord, 0, len(table.Rows))

	for _, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		number := col.cell(row, col.number)
		if _, dup := seen[number]; dup {
			report.Duplicates++
			continue
		}
		seen[number] = struct{}{}

		invoice, ok := n.dates.Parse(col.cell(row, col.invoice))
		if !ok {
			report.InvalidDates++
			continue
		}
		ship, ok := n.dates.Parse(col.cell(row, col.ship))
		defaulted := !ok
		if defaulted {
			ship = invoice
			report.ShipDatesDefaulted++
		}

		brand := col.cell(row, col.brand)
		if _, allowed := n.brands[brand]; !allowed {
			report.BrandFiltered++
			continue
		}

		channel := col.cell(row, col.channel)
		records = append(records, domain.ShipmentRecord{
			InvoiceNumber:     number,
			Brand:             brand,
			ChannelRaw:        channel,
			ChannelGroup:      n.classifier.Classify(channel),
			ShipDate:          ship,
			InvoiceDate:       invoice,
			City:              col.cell(row, col.city),
			LeadTimeDays:      calendar.LeadTime(ship, invoice),
			EventDate:         calendar.DateOf(invoice),
			ShipDateDefaulted: defaulted,
		})
	}

	report.RowsFinal = len(records)
	report.Brands = lo.Uniq(lo.Map(records, func(r domain.ShipmentRecord, _ int) string {
		return r.Brand
	}))
	sort.Strings(report.Brands)

	n.logger.InfoContext(ctx, "Batch normalized",
		slog.Int("rows_read", report.RowsRead),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("invalid_dates", report.InvalidDates),
		slog.Int("brand_filtered", report.BrandFiltered),
		slog.Int("ship_dates_defaulted", report.ShipDatesDefaulted),
		slog.Int("rows_final", report.RowsFinal))

	return records, report, nil
}

func lookup(index map[string]int, name string) int {
	if i, ok := index[name]; ok {
		return i
	}
	return -1
}

// Summary renders the report as the one-line processing message shown after
// an upload.
func Summary(report domain.NormalizationReport) string {
	if report.EmptyInput {
		return "The file has no data rows."
	}
	return fmt.Sprintf("%d rows read, %d duplicates removed, %d invalid dates, %d outside the brand list, %d records kept. Brands: %s.",
		report.RowsRead, report.Duplicates, report.InvalidDates, report.BrandFiltered, report.RowsFinal,
		strings.Join(report.Brands, ", "))
}
