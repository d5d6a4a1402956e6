package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"leadtimecli/internal/analytics"
	apierrors "leadtimecli/internal/errors"
	"leadtimecli/internal/middleware"
	"leadtimecli/pkg/contracts/domain"
)

// AnalysisQuery holds the filter query parameters shared by every analysis route.
// A brand or channel parameter that is present but blank selects nothing.
type AnalysisQuery struct {
	From     string   `query:"from" validate:"omitempty,day"`
	To       string   `query:"to" validate:"omitempty,day"`
	Brands   []string `query:"brand" validate:"omitempty,dive,max=100"`
	Channels []string `query:"channel" validate:"omitempty,dive,oneof=WEBSHOP HOME_CENTER OTHER"`
	Top      int      `query:"top" validate:"gte=0,lte=1000"`
}

// parseAnalysisQuery decodes and validates the query string.
func parseAnalysisQuery(values url.Values, v *middleware.RequestValidator) (AnalysisQuery, error) {
	q := AnalysisQuery{
		From:     strings.TrimSpace(values.Get("from")),
		To:       strings.TrimSpace(values.Get("to")),
		Brands:   selection(values, "brand"),
		Channels: selection(values, "channel"),
	}

	if raw := strings.TrimSpace(values.Get("top")); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil {
			return AnalysisQuery{}, apierrors.ErrValidation("top", "top must be a whole number")
		}
		q.Top = top
	}

	if err := v.ValidateStruct(q); err != nil {
		return AnalysisQuery{}, err
	}
	return q, nil
}

// selection returns nil when key is absent, so absence places no constraint.
func selection(values url.Values, key string) []string {
	raw, ok := values[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Filter converts the query into an analytics filter. Dates were validated already.
func (q AnalysisQuery) Filter() analytics.Filter {
	f := analytics.Filter{Brands: q.Brands}
	if q.From != "" {
		f.From, _ = time.Parse(domain.DayLayout, q.From)
	}
	if q.To != "" {
		f.To, _ = time.Parse(domain.DayLayout, q.To)
	}
	if q.Channels != nil {
		f.Channels = lo.Map(q.Channels, func(c string, _ int) domain.ChannelGroup {
			return domain.ChannelGroup(c)
		})
	}
	return f
}
