package models

// Bucket accumulates unit count and monetary total for one slice of a
// summary. Summaries are built fresh per query and never persisted.
type Bucket struct {
	Units      int     `json:"units"`
	TotalSales float64 `json:"total_sales"`
}

// ChannelBuckets holds one bucket per classified channel.
type ChannelBuckets map[Channel]*Bucket

func NewChannelBuckets() ChannelBuckets {
	b := make(ChannelBuckets, len(Channels))
	for _, ch := range Channels {
		b[ch] = &Bucket{}
	}
	return b
}

// ASINSummary is one product's totals within a period, with a snapshot of
// its metadata at query time.
type ASINSummary struct {
	Meta     AsinMeta       `json:"meta"`
	Channels ChannelBuckets `json:"channels"`
	Totals   Bucket         `json:"totals"`
}

// PeriodSummary is one calendar month or ISO week of sales. Period labels
// are zero-padded ("2024-03", "2024-W09") so lexicographic order equals
// chronological order. StartDate/EndDate are set for weekly summaries only.
type PeriodSummary struct {
	Period        string                  `json:"period"`
	StartDate     string                  `json:"start_date,omitempty"`
	EndDate       string                  `json:"end_date,omitempty"`
	Totals        Bucket                  `json:"totals"`
	ChannelTotals ChannelBuckets          `json:"channel_totals"`
	ByASIN        map[string]*ASINSummary `json:"by_asin"`
}

// Comparison pairs a current-window total with the same window shifted back
// 365 days. ChangePct is nil when the previous total is zero: there is no
// comparison available, which is distinct from a 0% change.
type Comparison struct {
	Current   float64  `json:"current"`
	Previous  float64  `json:"previous"`
	ChangePct *float64 `json:"change_pct"`
}

// WindowComparison is one dashboard window (YTD, MTD, current week).
type WindowComparison struct {
	Start    string                 `json:"start"`
	End      string                 `json:"end"`
	Totals   Comparison             `json:"totals"`
	Channels map[Channel]Comparison `json:"channels"`
}

// DashboardSummary is the brand landing-page rollup.
type DashboardSummary struct {
	YearToDate   WindowComparison `json:"ytd"`
	MonthToDate  WindowComparison `json:"mtd"`
	Week         WindowComparison `json:"week"`
	LatestUpdate string           `json:"latest_update,omitempty"`
}

// ChannelSeries is a twelve-month series for one channel, January first.
type ChannelSeries struct {
	Units         []int     `json:"units"`
	Sales         []float64 `json:"sales"`
	PreviousSales []float64 `json:"previous_sales"`
}

// YearlySeries is the per-channel monthly breakdown for one calendar year
// with the prior year's sales alongside for comparison.
type YearlySeries struct {
	Labels       []string                  `json:"labels"`
	Year         int                       `json:"year"`
	PreviousYear int                       `json:"previous_year"`
	Channels     map[Channel]ChannelSeries `json:"channels"`
}
