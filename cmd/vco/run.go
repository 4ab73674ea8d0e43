package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"virtualco/internal/app"
	"virtualco/internal/catalog"
	"virtualco/internal/config"
	"virtualco/internal/domain"
	"virtualco/internal/export"
	"virtualco/internal/notify"
	"virtualco/internal/session"
)

type runOptions struct {
	project  domain.Project
	ticks    int
	skip     int
	seed     uint64
	xlsxPath string
	owner    string
	messages int
}

func runCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation offline and print a summary",
		Long: `Run a headless simulation: found the company, run --ticks ticks, optionally
fast-forward --skip days, then print the company summary. With --owner the result
is saved for that user (id or email).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateProject(opts.project); err != nil {
				return err
			}
			if opts.ticks < 0 || opts.skip < 0 {
				return fmt.Errorf("--ticks and --skip must not be negative")
			}
			st, err := config.LoadOptional(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			if opts.owner == "" {
				log := newLogger("warn")
				s, err := session.New(session.Options{
					Project:  opts.project,
					Settings: st,
					Seed:     opts.seed,
					Notifier: notify.LogSink{Log: log},
					Log:      log,
				})
				if err != nil {
					return err
				}
				defer s.Close()
				return simulate(cmd.Context(), s, opts, false)
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				owner, err := resolveOwner(ctx, a, opts.owner)
				if err != nil {
					return err
				}
				s, err := a.NewSession(owner, opts.project, st, opts.seed)
				if err != nil {
					return err
				}
				defer s.Close()
				return simulate(ctx, s, opts, true)
			})
		},
	}
	cmd.Flags().StringVar(&opts.project.Name, "name", "Acme", "company name")
	cmd.Flags().StringVar(&opts.project.Domain, "domain", "saas", "business domain")
	cmd.Flags().IntVar(&opts.project.Duration, "duration", 12, "planned duration in months")
	cmd.Flags().StringVar(&opts.project.Description, "description", "", "company description")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 100, "number of ticks to run")
	cmd.Flags().IntVar(&opts.skip, "skip", 0, "days to fast-forward after the ticks")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "write a spreadsheet report to this path")
	cmd.Flags().StringVar(&opts.owner, "owner", "", "save the result for this user id or email")
	cmd.Flags().IntVar(&opts.messages, "messages", 10, "recent messages to print")
	return cmd
}

func simulate(ctx context.Context, s *session.Session, opts runOptions, save bool) error {
	for i := 0; i < opts.ticks; i++ {
		if err := s.Tick(ctx); err != nil {
			return fmt.Errorf("tick %d: %w", i+1, err)
		}
	}
	if opts.skip > 0 {
		if err := s.SkipDays(ctx, opts.skip); err != nil {
			return err
		}
	}
	sim, err := s.Simulation(ctx)
	if err != nil {
		return err
	}
	if save {
		id, err := s.Save(ctx)
		if err != nil {
			return err
		}
		sim.ID = id
	}
	b := export.FromSimulation(sim, sim.Data.CurrentDate)
	if opts.xlsxPath != "" {
		f, err := os.Create(opts.xlsxPath)
		if err != nil {
			return err
		}
		if err := export.WriteXLSX(f, b); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	if viper.GetBool("json") {
		return printJSON(b)
	}
	printSummary(sim, opts.messages)
	if opts.xlsxPath != "" {
		fmt.Println("spreadsheet written to", opts.xlsxPath)
	}
	return nil
}

func printSummary(sim domain.Simulation, messages int) {
	cat := catalog.Default()
	d := sim.Data
	labels := cat.MetricLabels(sim.Project.Domain)
	sum := export.Summarize(d)

	tw := newTable(fmt.Sprintf("%s (%s)", sim.Project.Name, cat.Domain(sim.Project.Domain).Name), table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Date", d.CurrentDate.Format("2006-01-02")},
		{"Product progress", fmt.Sprintf("%.1f%%", d.ProductProgress)},
		{labels.Users, d.Metrics.Users},
		{labels.Revenue, d.Metrics.Revenue},
		{labels.Features, d.Metrics.Features},
		{"Tasks done", fmt.Sprintf("%d / %d", sum.CompletedTasks, sum.TotalTasks)},
		{"PRs merged", fmt.Sprintf("%d / %d", d.Metrics.PRsMerged, d.Metrics.PRsOpened)},
		{"Open PRs", sum.OpenPRs},
		{"Bugs", d.Metrics.Bugs},
		{"Test coverage", fmt.Sprintf("%.1f%%", d.Metrics.TestCoverage)},
		{"Doc pages", sum.TotalDocPages},
	})
	if sim.ID != "" {
		tw.AppendRow(table.Row{"Saved as", sim.ID})
	}
	tw.Render()

	tw = newTable("Team", table.Row{"Agent", "Role", "Status", "Tasks done"})
	for _, a := range d.Agents {
		tw.AppendRow(table.Row{a.Avatar + " " + a.Name, a.Title, a.Status, a.TasksCompleted})
	}
	tw.Render()

	if len(d.FinancialRecords) > 0 {
		tw = newTable("Financials", table.Row{"Month", "Revenue", "Expenses", "Profit", "Runway", "MRR"})
		for _, r := range d.FinancialRecords {
			tw.AppendRow(table.Row{r.Month, r.Revenue, r.Expenses, r.Profit, r.Runway, r.MRR})
		}
		tw.Render()
	}

	if len(d.Market.Competitors) > 0 {
		tw = newTable(fmt.Sprintf("Market (%.1f%% of $%d)", d.Market.Share, d.Market.TotalSize), table.Row{"Competitor", "Share", "Strength", "Trend"})
		for _, c := range d.Market.Competitors {
			tw.AppendRow(table.Row{c.Name, fmt.Sprintf("%.1f%%", c.MarketShare), c.Strength, c.Trend})
		}
		tw.Render()
	}

	if len(d.OKRs) > 0 {
		tw = newTable("OKRs", table.Row{"Objective", "Owner", "Progress"})
		for _, o := range d.OKRs {
			tw.AppendRow(table.Row{o.Objective, o.Owner, fmt.Sprintf("%.0f%%", o.Progress)})
		}
		tw.Render()
	}

	if messages > 0 && len(d.Messages) > 0 {
		names := map[string]string{}
		for _, a := range d.Agents {
			names[a.ID] = a.Name
		}
		start := max(len(d.Messages)-messages, 0)
		tw = newTable("Recent messages", table.Row{"Time", "From", "Type", "Message"})
		for _, m := range d.Messages[start:] {
			tw.AppendRow(table.Row{m.Timestamp.Format("2006-01-02 15:04"), names[m.AgentID], m.Type, m.Content})
		}
		tw.Render()
	}
}
