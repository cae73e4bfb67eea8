package dashboard

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/mealpoint/staffdesk/backend"
	"github.com/mealpoint/staffdesk/web"
)

// ReportSection is one chart's worth of overview data.
type ReportSection struct {
	Key    string          `json:"key"`
	Title  string          `json:"title"`
	Money  bool            `json:"money"`
	Series *backend.Series `json:"series"`
}

// Overview is the merged result of all report queries for one range.
type Overview struct {
	Range    backend.ReportRange `json:"range"`
	Sections []ReportSection     `json:"sections"`
}

// reportsOverview fans the report calls out concurrently and joins
// all-or-none: any failure fails the whole overview so the page shows a
// single error state instead of a partial chart grid.
func (s *Server) reportsOverview(ctx context.Context, outletID int64, rng backend.ReportRange) (*Overview, error) {
	client := s.sess.Backend()
	type fetcher struct {
		key   string
		title string
		money bool
		fn    func(context.Context, int64, backend.ReportRange) (*backend.Series, error)
	}
	fetchers := []fetcher{
		{"sales-trend", "Sales trend", true, client.SalesTrend},
		{"order-type-breakdown", "Orders by type", false, client.OrderTypeBreakdown},
		{"new-customers-trend", "New customers", false, client.NewCustomersTrend},
		{"category-breakdown", "Sales by category", true, client.CategoryBreakdown},
		{"delivery-time-orders", "Orders by delivery slot", false, client.DeliveryTimeOrders},
		{"cancellation-refunds", "Cancellations and refunds", true, client.CancellationRefunds},
		{"quantity-sold", "Quantity sold", false, client.QuantitySold},
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sections := make([]ReportSection, len(fetchers))
	var (
		once     sync.Once
		firstErr error
		wg       sync.WaitGroup
	)
	for i, f := range fetchers {
		wg.Add(1)
		go func(i int, f fetcher) {
			defer wg.Done()
			series, err := f.fn(ctx, outletID, rng)
			if err != nil {
				// Only the triggering failure is reported; siblings abandoned
				// by the cancel fail with cancellation noise.
				once.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			sections[i] = ReportSection{Key: f.key, Title: f.title, Money: f.money, Series: series}
		}(i, f)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &Overview{Range: rng, Sections: sections}, nil
}

func reportRangeFromQuery(r *http.Request) backend.ReportRange {
	rng := backend.ReportRange{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
		Interval:  r.URL.Query().Get("interval"),
	}
	const day = "2006-01-02"
	if rng.EndDate == "" {
		rng.EndDate = time.Now().Format(day)
	}
	if rng.StartDate == "" {
		rng.StartDate = time.Now().AddDate(0, 0, -30).Format(day)
	}
	return rng
}

// ReportsPage handles GET /reports.
func (s *Server) ReportsPage(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	outletID, ok := s.outletID(w, snap)
	if !ok {
		return
	}
	overview, err := s.reportsOverview(r.Context(), outletID, reportRangeFromQuery(r))
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	s.render(w, http.StatusOK, "reports.html", web.Page{
		Title:  "Reports",
		Active: "reports",
		Snap:   snap,
		Data:   overview,
	})
}

// APIReportsOverview handles GET /api/v1/reports/overview.
func (s *Server) APIReportsOverview(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	if snap.Outlet == nil {
		writeError(w, http.StatusConflict, "no outlet assigned")
		return
	}
	overview, err := s.reportsOverview(r.Context(), snap.Outlet.ID, reportRangeFromQuery(r))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
