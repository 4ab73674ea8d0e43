package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"virtualco/internal/domain"
)

// Summary is the headline of an exported company.
type Summary struct {
	TeamSize       int
	TotalTasks     int
	CompletedTasks int
	OpenPRs        int
	TotalDocPages  int
}

func Summarize(d domain.Data) Summary {
	s := Summary{
		TeamSize:      len(d.Agents),
		TotalTasks:    len(d.Tasks),
		TotalDocPages: len(d.Documentation),
	}
	for _, t := range d.Tasks {
		if t.Status == domain.TaskDone {
			s.CompletedTasks++
		}
	}
	for _, pr := range d.PullRequests {
		if pr.Status == domain.PROpen {
			s.OpenPRs++
		}
	}
	return s
}

// WriteXLSX writes Summary, Tasks, Financials and Market sheets.
func WriteXLSX(w io.Writer, b Bundle) error {
	f := excelize.NewFile()
	defer f.Close()

	names := map[string]string{}
	for _, a := range b.Agents {
		names[a.ID] = a.Name
	}
	name := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}

	tasks := [][]any{{"ID", "Title", "Status", "Assigned To", "Priority", "Type", "Created By"}}
	for _, t := range b.Tasks {
		tasks = append(tasks, []any{t.ID, t.Title, string(t.Status), name(t.AssignedTo), string(t.Priority), string(t.Type), name(t.CreatedBy)})
	}
	financials := [][]any{{"Month", "Revenue", "Expenses", "Profit", "Runway", "ARR", "MRR", "Burn Rate"}}
	for _, r := range b.FinancialRecords {
		financials = append(financials, []any{r.Month, r.Revenue, r.Expenses, r.Profit, r.Runway, r.ARR, r.MRR, r.BurnRate})
	}
	market := [][]any{{"Competitor", "Market Share", "Strength", "Trend", "Recent Launch"}}
	for _, c := range b.Market.Competitors {
		market = append(market, []any{c.Name, c.MarketShare, c.Strength, string(c.Trend), c.RecentLaunch})
	}
	sum := Summarize(b.Data)
	summary := [][]any{
		{"Metric", "Value"},
		{"Project", b.ProjectConfig.Name},
		{"Domain", b.ProjectConfig.Domain},
		{"Current Date", b.CurrentDate.Format("2006-01-02")},
		{"Product Progress", b.ProductProgress},
		{"Team Size", sum.TeamSize},
		{"Total Tasks", sum.TotalTasks},
		{"Completed Tasks", sum.CompletedTasks},
		{"Open PRs", sum.OpenPRs},
		{"Documentation Pages", sum.TotalDocPages},
		{"Users", b.Metrics.Users},
		{"Revenue", b.Metrics.Revenue},
		{"Test Coverage", b.Metrics.TestCoverage},
		{"Market Share", b.Market.Share},
		{"Market Size", b.Market.TotalSize},
	}

	first := -1
	for _, sheet := range []struct {
		name string
		rows [][]any
	}{{"Summary", summary}, {"Tasks", tasks}, {"Financials", financials}, {"Market", market}} {
		idx, err := f.NewSheet(sheet.name)
		if err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}
		if first < 0 {
			first = idx
		}
		for i, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", sheet.name, i+1, err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	if idx, err := f.GetSheetIndex("Summary"); err == nil {
		f.SetActiveSheet(idx)
	}
	_, err := f.WriteTo(w)
	return err
}
