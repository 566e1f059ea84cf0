package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"reports/internal/store"
	"reports/models"
)

var (
	ErrInvalidMonthCount = errors.New("month count must be >= 1")
	ErrInvalidDateRange  = errors.New("start date must be on or before end date")
)

// Engine computes summaries over one brand's store. Queries are read-only
// and safe to run concurrently; a query racing an in-flight ingestion of
// the same brand may observe the window between that ingestion's delete
// and reinsert, which is acceptable for a reporting tool.
type Engine struct {
	store   *store.Store
	revenue RevenuePolicy
	now     func() time.Time
}

// NewEngine builds an engine with the given revenue policy; nil selects
// the canonical GrossItemRevenue.
func NewEngine(st *store.Store, policy RevenuePolicy) *Engine {
	if policy == nil {
		policy = GrossItemRevenue
	}
	return &Engine{
		store:   st,
		revenue: policy,
		now:     time.Now,
	}
}

// Monthly summarizes the nMonths most recent calendar months up to the
// current month, most recent first. Every month in the window is present
// even when it has no sales. The optional channel filter ("us"/"canada")
// restricts source rows before bucketing.
func (e *Engine) Monthly(ctx context.Context, nMonths int, channel string) ([]models.PeriodSummary, error) {
	if nMonths < 1 {
		return nil, ErrInvalidMonthCount
	}
	filter, err := models.ParseChannelFilter(channel)
	if err != nil {
		return nil, err
	}

	current := monthStart(e.now().UTC())
	windowStart := current.AddDate(0, -(nMonths - 1), 0)
	windowEnd := current.AddDate(0, 1, 0)

	lines, err := e.store.Lines(ctx, store.LineQuery{
		Start:        windowStart,
		End:          windowEnd,
		SalesChannel: filter,
	})
	if err != nil {
		return nil, err
	}

	metas, err := e.metaByASIN(ctx)
	if err != nil {
		return nil, err
	}

	periods := make(map[string]*models.PeriodSummary, nMonths)
	for m := windowStart; m.Before(windowEnd); m = m.AddDate(0, 1, 0) {
		periods[monthLabel(m)] = newPeriodSummary(monthLabel(m))
	}

	for _, line := range lines {
		ps, ok := periods[monthLabel(*line.PurchaseDate)]
		if !ok {
			continue
		}
		e.accumulate(ps, line, metas)
	}

	out := make([]models.PeriodSummary, 0, len(periods))
	for _, ps := range periods {
		out = append(out, *ps)
	}
	// latest first; safe on the zero-padded labels
	sort.Slice(out, func(i, j int) bool { return out[i].Period > out[j].Period })
	return out, nil
}

// Weekly summarizes every ISO week (Monday-Sunday) overlapping the
// inclusive date range, earliest first, empty weeks included.
func (e *Engine) Weekly(ctx context.Context, start, end time.Time, channel string) ([]models.PeriodSummary, error) {
	start, end = dateOnly(start.UTC()), dateOnly(end.UTC())
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}
	filter, err := models.ParseChannelFilter(channel)
	if err != nil {
		return nil, err
	}

	lines, err := e.store.Lines(ctx, store.LineQuery{
		Start:        start,
		End:          end.AddDate(0, 0, 1),
		SalesChannel: filter,
	})
	if err != nil {
		return nil, err
	}

	metas, err := e.metaByASIN(ctx)
	if err != nil {
		return nil, err
	}

	periods := make(map[string]*models.PeriodSummary)
	var order []string
	for ws := isoWeekStart(start); !ws.After(end); ws = ws.AddDate(0, 0, 7) {
		label := isoWeekLabel(ws)
		ps := newPeriodSummary(label)
		ps.StartDate = ws.Format("2006-01-02")
		ps.EndDate = ws.AddDate(0, 0, 6).Format("2006-01-02")
		periods[label] = ps
		order = append(order, label)
	}

	for _, line := range lines {
		ps, ok := periods[isoWeekLabel(*line.PurchaseDate)]
		if !ok {
			continue
		}
		e.accumulate(ps, line, metas)
	}

	out := make([]models.PeriodSummary, 0, len(order))
	for _, label := range order {
		out = append(out, *periods[label])
	}
	return out, nil
}

// SalesTotal returns total revenue for the inclusive date range, excluding
// cancelled line items. The optional channel filter restricts source rows.
func (e *Engine) SalesTotal(ctx context.Context, start, end time.Time, channel string) (float64, error) {
	start, end = dateOnly(start.UTC()), dateOnly(end.UTC())
	if start.After(end) {
		return 0, ErrInvalidDateRange
	}
	filter, err := models.ParseChannelFilter(channel)
	if err != nil {
		return 0, err
	}

	lines, err := e.store.Lines(ctx, store.LineQuery{
		Start:            start,
		End:              end.AddDate(0, 0, 1),
		SalesChannel:     filter,
		ExcludeCancelled: true,
	})
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, line := range lines {
		total += e.revenue(line)
	}
	return total, nil
}

// SalesTotalByChannel returns revenue per classified channel for the
// inclusive date range. Unclassified channels are omitted.
func (e *Engine) SalesTotalByChannel(ctx context.Context, start, end time.Time) (map[models.Channel]float64, error) {
	start, end = dateOnly(start.UTC()), dateOnly(end.UTC())
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	lines, err := e.store.Lines(ctx, store.LineQuery{
		Start:            start,
		End:              end.AddDate(0, 0, 1),
		ExcludeCancelled: true,
	})
	if err != nil {
		return nil, err
	}

	totals := make(map[models.Channel]float64, len(models.Channels))
	for _, ch := range models.Channels {
		totals[ch] = 0
	}
	for _, line := range lines {
		if ch, ok := models.BucketChannel(line.SalesChannel); ok {
			totals[ch] += e.revenue(line)
		}
	}
	return totals, nil
}

// LatestUpdateDate returns the date portion of the most recent
// last-updated timestamp, or "" for an empty store.
func (e *Engine) LatestUpdateDate(ctx context.Context) (string, error) {
	latest, err := e.store.LatestUpdateDate(ctx)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return "", nil
	}
	return latest.Format("2006-01-02"), nil
}

// YearlyChannelMonthlyTotals builds the twelve-month units/sales series
// per channel for one calendar year, with the prior year's sales series
// alongside.
func (e *Engine) YearlyChannelMonthlyTotals(ctx context.Context, year int) (*models.YearlySeries, error) {
	if year < 1 {
		return nil, fmt.Errorf("invalid year %d", year)
	}

	current, err := e.collectYear(ctx, year)
	if err != nil {
		return nil, err
	}
	previous, err := e.collectYear(ctx, year-1)
	if err != nil {
		return nil, err
	}

	series := &models.YearlySeries{
		Labels: []string{
			"Jan", "Feb", "Mar", "Apr", "May", "Jun",
			"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
		},
		Year:         year,
		PreviousYear: year - 1,
		Channels:     make(map[models.Channel]models.ChannelSeries, len(models.Channels)),
	}

	for _, ch := range models.Channels {
		cs := models.ChannelSeries{
			Units:         make([]int, 12),
			Sales:         make([]float64, 12),
			PreviousSales: make([]float64, 12),
		}
		for i := 0; i < 12; i++ {
			cs.Units[i] = current[ch][i].Units
			cs.Sales[i] = current[ch][i].TotalSales
			cs.PreviousSales[i] = previous[ch][i].TotalSales
		}
		series.Channels[ch] = cs
	}
	return series, nil
}

func (e *Engine) collectYear(ctx context.Context, year int) (map[models.Channel][12]models.Bucket, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	lines, err := e.store.Lines(ctx, store.LineQuery{
		Start: start,
		End:   start.AddDate(1, 0, 0),
	})
	if err != nil {
		return nil, err
	}

	collected := make(map[models.Channel][12]models.Bucket, len(models.Channels))
	for _, ch := range models.Channels {
		collected[ch] = [12]models.Bucket{}
	}

	for _, line := range lines {
		ch, ok := models.BucketChannel(line.SalesChannel)
		if !ok {
			continue
		}
		buckets := collected[ch]
		i := int(line.PurchaseDate.Month()) - 1
		buckets[i].Units += qty(line)
		buckets[i].TotalSales += e.revenue(line)
		collected[ch] = buckets
	}
	return collected, nil
}

func newPeriodSummary(label string) *models.PeriodSummary {
	return &models.PeriodSummary{
		Period:        label,
		ChannelTotals: models.NewChannelBuckets(),
		ByASIN:        make(map[string]*models.ASINSummary),
	}
}

// accumulate folds one order line into a period summary: overall totals,
// channel totals for classified channels, and per-ASIN totals. Lines with
// no ASIN accumulate under the "" key so per-product totals still add up
// to the overall total.
func (e *Engine) accumulate(ps *models.PeriodSummary, line models.OrderLine, metas map[string]models.AsinMeta) {
	units := qty(line)
	revenue := e.revenue(line)

	asin := ""
	if line.ASIN != nil {
		asin = *line.ASIN
	}

	as, ok := ps.ByASIN[asin]
	if !ok {
		as = &models.ASINSummary{
			Meta:     metas[asin],
			Channels: models.NewChannelBuckets(),
		}
		as.Meta.ASIN = asin
		ps.ByASIN[asin] = as
	}

	ps.Totals.Units += units
	ps.Totals.TotalSales += revenue
	as.Totals.Units += units
	as.Totals.TotalSales += revenue

	if ch, ok := models.BucketChannel(line.SalesChannel); ok {
		ps.ChannelTotals[ch].Units += units
		ps.ChannelTotals[ch].TotalSales += revenue
		as.Channels[ch].Units += units
		as.Channels[ch].TotalSales += revenue
	}
}

func (e *Engine) metaByASIN(ctx context.Context) (map[string]models.AsinMeta, error) {
	metas, err := e.store.AllAsinMeta(ctx)
	if err != nil {
		return nil, err
	}
	byASIN := make(map[string]models.AsinMeta, len(metas))
	for _, m := range metas {
		byASIN[m.ASIN] = m
	}
	return byASIN, nil
}

func qty(l models.OrderLine) int {
	if l.Quantity == nil {
		return 0
	}
	return *l.Quantity
}
