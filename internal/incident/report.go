package incident

import (
	"fmt"
	"strings"
	"time"
)

const dateTimeLayout = "2006-01-02 15:04 MST"

// RenderReport produces the narrative submission document for an
// incident as plain text. Sections appear in a fixed order regardless
// of which fields are populated, so reviewers always know where to
// look.
func RenderReport(agg Aggregate) []byte {
	inc := agg.Incident
	var b strings.Builder

	title := fmt.Sprintf("ICT INCIDENT REPORT - %s", inc.Reference)
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	section(&b, "1. Identification")
	field(&b, "Reference", inc.Reference)
	field(&b, "Title", inc.Title)
	field(&b, "Severity", inc.Severity)
	field(&b, "Status", inc.Status)
	if inc.Description != "" {
		b.WriteString("\n" + wrap(inc.Description, 78) + "\n")
	}
	b.WriteString("\n")

	section(&b, "2. Timeline")
	field(&b, "Detected", inc.DetectedAt.Format(dateTimeLayout))
	if inc.OccurredAt != nil {
		field(&b, "Occurred", inc.OccurredAt.Format(dateTimeLayout))
	}
	if inc.ResolvedAt != nil {
		field(&b, "Resolved", inc.ResolvedAt.Format(dateTimeLayout))
		field(&b, "Duration", formatDuration(inc.DetectedAt, *inc.ResolvedAt))
	}
	if len(agg.Events) > 0 {
		b.WriteString("\n")
		for _, e := range agg.Events {
			fmt.Fprintf(&b, "  %s  %s\n", e.At.Format(dateTimeLayout), e.Description)
		}
	}
	b.WriteString("\n")

	section(&b, "3. Impact Assessment")
	field(&b, "Clients affected", fmt.Sprintf("%d", inc.ClientsAffected))
	field(&b, "Downtime", fmt.Sprintf("%d minutes", inc.DowntimeMinutes))
	if inc.EconomicImpact != "" {
		field(&b, "Economic impact", inc.EconomicImpact)
	}
	field(&b, "Data loss", yesNo(inc.DataLoss))
	b.WriteString("\n")

	section(&b, "4. Third-Party Involvement")
	if inc.VendorName != "" {
		field(&b, "Provider", inc.VendorName)
	} else {
		b.WriteString("No third-party ICT service provider was involved.\n")
	}
	b.WriteString("\n")

	section(&b, "5. Root Cause")
	if inc.RootCause != "" {
		b.WriteString(wrap(inc.RootCause, 78) + "\n")
	} else {
		b.WriteString("Root cause analysis pending.\n")
	}
	b.WriteString("\n")

	section(&b, "6. Classification")
	field(&b, "Classification", orDash(inc.Classification))
	if inc.ClassificationOverride != "" {
		field(&b, "Override", inc.ClassificationOverride)
		field(&b, "Override reason", orDash(inc.OverrideReason))
	}
	b.WriteString("\n")

	section(&b, "7. Submission History")
	if len(agg.Reports) == 0 {
		b.WriteString("No reports submitted yet.\n")
	} else {
		for _, r := range agg.Reports {
			fmt.Fprintf(&b, "  %-12s %-20s submitted %s\n",
				r.Type, r.Reference, r.SubmittedAt.Format(dateTimeLayout))
		}
	}

	return []byte(b.String())
}

func section(b *strings.Builder, heading string) {
	b.WriteString(heading + "\n")
	b.WriteString(strings.Repeat("-", len(heading)) + "\n")
}

func field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%-18s %s\n", label+":", value)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func formatDuration(from, to time.Time) string {
	d := to.Sub(from).Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

// wrap breaks text on word boundaries at the given width.
func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	line := 0
	for i, w := range words {
		if i > 0 {
			if line+1+len(w) > width {
				b.WriteString("\n")
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}
