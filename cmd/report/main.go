package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"leadspeed/internal/conversion/domain"
	"leadspeed/internal/conversion/service"
	"leadspeed/internal/gcal"
	leadsrepo "leadspeed/internal/leads/repository"
	"leadspeed/platform/config"
	"leadspeed/platform/db"
	"leadspeed/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead-to-opportunity-speed report")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	provider, err := gcal.NewCredentialProvider(cfg, gcal.StdinConsent(os.Stdin, os.Stdout))
	if err != nil {
		log.Error("failed to initialize Google credentials", "error", err)
		panic("failed to initialize Google credentials: " + err.Error())
	}

	svc := service.New(
		leadsrepo.New(pool, cfg.GetLeadsTable()),
		gcal.NewFetcher(provider, log),
		nil, // one-shot run, nothing to cache
		log,
	)

	report := svc.Run(ctx, service.RunOptions{})
	printReport(os.Stdout, report)
}

func printReport(w io.Writer, report *service.Report) {
	if report.Outcome != domain.OutcomeOK {
		fmt.Fprintln(w, noticeFor(report.Outcome))
		return
	}

	fmt.Fprintln(w, "--- RESULT: Lead to Opportunity Speed ---")
	fmt.Fprintf(w, "Based on %d leads that had a call booked.\n", report.SampleCount)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Average time between lead creation and the first booked call:")
	fmt.Fprintf(w, "--> %s\n", report.MeanDuration)
	fmt.Fprintf(w, "--> Or, in a friendlier format: %s\n", formatMean(report.MeanDuration))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Converted leads:")
	for _, rec := range report.Records {
		fmt.Fprintf(w, "  %s  lead: %s  call booked: %s  speed: %s\n",
			rec.Email,
			rec.LeadCreatedAt.Format(time.DateTime),
			rec.EventCreatedAt.Format(time.DateTime),
			formatDetail(rec.Duration),
		)
	}
}

// formatMean keeps the minute remainder. The dashboard surface rounds to
// whole hours; the two formats are intentionally independent.
func formatMean(d time.Duration) string {
	total := int64(d / time.Second)
	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	return fmt.Sprintf("%d days, %d hours and %d minutes", days, hours, minutes)
}

func formatDetail(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%d days, %d hours", total/86400, total%86400/3600)
}

func noticeFor(outcome domain.Outcome) string {
	switch outcome {
	case domain.OutcomeNoLeads:
		return "No leads were found. Not enough data to compute the metric."
	case domain.OutcomeNoEvents:
		return "No calendar events were found. Not enough data to compute the metric."
	case domain.OutcomeNoMatches:
		return "No lead with a booked call was found."
	case domain.OutcomeNoValidConversions:
		return "No lead with a valid booking (event created after the lead) was found."
	default:
		return "Not enough data to compute the metric."
	}
}
