package main

import (
	"strings"
	"testing"
	"time"

	"leadspeed/internal/conversion/domain"
	"leadspeed/internal/conversion/service"
)

func TestFormatMean_IncludesMinutes(t *testing.T) {
	d := 2*24*time.Hour + 12*time.Hour + 45*time.Minute

	if got := formatMean(d); got != "2 days, 12 hours and 45 minutes" {
		t.Fatalf("unexpected mean format: %q", got)
	}
}

func TestFormatDetail_DropsMinutes(t *testing.T) {
	d := 24*time.Hour + 3*time.Hour + 59*time.Minute

	if got := formatDetail(d); got != "1 days, 3 hours" {
		t.Fatalf("unexpected detail format: %q", got)
	}
}

func TestPrintReport_OK(t *testing.T) {
	report := &service.Report{
		Outcome:      domain.OutcomeOK,
		MeanDuration: 60 * time.Hour,
		SampleCount:  1,
		Records: []domain.Conversion{
			{
				Email:          "a@x.com",
				LeadCreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				EventCreatedAt: time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC),
				Duration:       60 * time.Hour,
			},
		},
	}

	var buf strings.Builder
	printReport(&buf, report)
	out := buf.String()

	if !strings.Contains(out, "Based on 1 leads that had a call booked.") {
		t.Fatalf("missing sample count line:\n%s", out)
	}
	if !strings.Contains(out, "2 days, 12 hours and 0 minutes") {
		t.Fatalf("missing friendly mean:\n%s", out)
	}
	if !strings.Contains(out, "a@x.com") {
		t.Fatalf("missing detail row:\n%s", out)
	}
}

func TestPrintReport_InsufficientData(t *testing.T) {
	cases := []struct {
		outcome  domain.Outcome
		expected string
	}{
		{domain.OutcomeNoLeads, "No leads were found"},
		{domain.OutcomeNoEvents, "No calendar events were found"},
		{domain.OutcomeNoMatches, "No lead with a booked call"},
		{domain.OutcomeNoValidConversions, "No lead with a valid booking"},
	}

	for _, tc := range cases {
		var buf strings.Builder
		printReport(&buf, &service.Report{Outcome: tc.outcome})
		if !strings.Contains(buf.String(), tc.expected) {
			t.Fatalf("outcome %q: expected notice containing %q, got %q", tc.outcome, tc.expected, buf.String())
		}
	}
}
