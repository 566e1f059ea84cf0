package reports

import (
	"context"
	"time"

	"reports/models"
)

// Dashboard builds the brand landing-page rollup: year-to-date,
// month-to-date and current-ISO-week totals, each compared against the
// same window shifted back exactly 365 days.
func (e *Engine) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	today := dateOnly(e.now().UTC())

	ytd, err := e.compareWindow(ctx, time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location()), today)
	if err != nil {
		return nil, err
	}
	mtd, err := e.compareWindow(ctx, monthStart(today), today)
	if err != nil {
		return nil, err
	}
	week, err := e.compareWindow(ctx, isoWeekStart(today), today)
	if err != nil {
		return nil, err
	}

	latest, err := e.LatestUpdateDate(ctx)
	if err != nil {
		return nil, err
	}

	return &models.DashboardSummary{
		YearToDate:   *ytd,
		MonthToDate:  *mtd,
		Week:         *week,
		LatestUpdate: latest,
	}, nil
}

// compareWindow totals [start, end] and the same window one year back,
// overall and per channel.
func (e *Engine) compareWindow(ctx context.Context, start, end time.Time) (*models.WindowComparison, error) {
	current, err := e.SalesTotal(ctx, start, end, "")
	if err != nil {
		return nil, err
	}
	previous, err := e.SalesTotal(ctx, start.AddDate(0, 0, -365), end.AddDate(0, 0, -365), "")
	if err != nil {
		return nil, err
	}

	currentCh, err := e.SalesTotalByChannel(ctx, start, end)
	if err != nil {
		return nil, err
	}
	previousCh, err := e.SalesTotalByChannel(ctx, start.AddDate(0, 0, -365), end.AddDate(0, 0, -365))
	if err != nil {
		return nil, err
	}

	wc := &models.WindowComparison{
		Start:    start.Format("2006-01-02"),
		End:      end.Format("2006-01-02"),
		Totals:   compare(current, previous),
		Channels: make(map[models.Channel]models.Comparison, len(models.Channels)),
	}
	for _, ch := range models.Channels {
		wc.Channels[ch] = compare(currentCh[ch], previousCh[ch])
	}
	return wc, nil
}

// compare derives the percentage change. A zero previous value yields a
// nil ChangePct: no comparison available, never a division by zero and
// never a silent 0%.
func compare(current, previous float64) models.Comparison {
	c := models.Comparison{Current: current, Previous: previous}
	if previous != 0 {
		pct := ((current - previous) / previous) * 100
		c.ChangePct = &pct
	}
	return c
}
