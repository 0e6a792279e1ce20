// Package dashboard renders charts over the harvested output directory.
package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/qepting91/reddit-spider/internal/domain"
	"github.com/qepting91/reddit-spider/internal/storage"
)

// Tally is the record count of one community file.
type Tally struct {
	Community   string
	Submissions int
	Comments    int
}

func (t Tally) Total() int {
	return t.Submissions + t.Comments
}

func StartServer(dataDir string, port string) error {
	return http.ListenAndServe(":"+port, Handler(dataDir))
}

// Handler re-reads dataDir on every request.
func Handler(dataDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tallies, err := LoadTallies(dataDir)
		if err != nil {
			slog.Error("Dashboard load failed", "dir", dataDir, "err", err)
			http.Error(w, "cannot read output directory", http.StatusInternalServerError)
			return
		}

		// 1. Records per community
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Harvest Share"}),
			charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		)
		var pieItems []opts.PieData
		for _, t := range tallies {
			pieItems = append(pieItems, opts.PieData{Name: t.Community, Value: t.Total()})
		}
		pie.AddSeries("Records", pieItems)

		// 2. Submissions vs comments
		bar := charts.NewBar()
		bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Submissions vs Comments"}))
		var barX []string
		var subs, comments []opts.BarData
		for _, t := range tallies {
			barX = append(barX, t.Community)
			subs = append(subs, opts.BarData{Value: t.Submissions})
			comments = append(comments, opts.BarData{Value: t.Comments})
		}
		bar.SetXAxis(barX).
			AddSeries("Submissions", subs).
			AddSeries("Comments", comments)

		pie.Render(w)
		bar.Render(w)
	}
}

// LoadTallies counts records per type for every community file in dir,
// in file name order.
func LoadTallies(dir string) ([]Tally, error) {
	names, err := storage.Communities(dir)
	if err != nil {
		return nil, err
	}
	sink := storage.NewSink(dir)
	tallies := make([]Tally, 0, len(names))
	for _, name := range names {
		records, err := storage.ReadRecords(sink.Path(name))
		if err != nil {
			return nil, err
		}
		t := Tally{Community: name}
		for _, rec := range records {
			switch rec.Type {
			case domain.RecordSubmission:
				t.Submissions++
			case domain.RecordComment:
				t.Comments++
			}
		}
		tallies = append(tallies, t)
	}
	return tallies, nil
}
