// Package incident loads ICT incident aggregates and renders the
// fixed-section narrative report used for regulatory submissions.
package incident

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meridiangrc/roi/internal/roi"
)

// Incident is the root of the reporting aggregate.
type Incident struct {
	ID                     uuid.UUID
	Reference              string
	Title                  string
	Description            string
	Severity               string // minor, significant, major
	Status                 string // open, contained, resolved, closed
	DetectedAt             time.Time
	OccurredAt             *time.Time
	ResolvedAt             *time.Time
	ClientsAffected        int
	DowntimeMinutes        int
	EconomicImpact         string
	DataLoss               bool
	VendorName             string // involved third-party provider, if any
	RootCause              string
	Classification         string // original automatic classification
	ClassificationOverride string // manual override, if any
	OverrideReason         string
}

// Report is one regulatory submission made for the incident.
type Report struct {
	Type        string // initial, intermediate, final
	Reference   string
	SubmittedAt time.Time
}

// Event is one timeline entry.
type Event struct {
	At          time.Time
	Description string
}

// Aggregate bundles an incident with its reports and timeline.
type Aggregate struct {
	Incident Incident
	Reports  []Report
	Events   []Event
}

// Service loads incident aggregates from the backing store.
type Service struct {
	db roi.DBTX
}

// NewService creates a Service. db is typically a *pgxpool.Pool.
func NewService(db roi.DBTX) *Service {
	return &Service{db: db}
}

// Fetch loads one incident aggregate, tenant-scoped and filtered on
// soft deletion. The three reads run sequentially; the aggregate is
// small.
func (s *Service) Fetch(ctx context.Context, orgID, incidentID uuid.UUID) (Aggregate, error) {
	const incidentQ = `SELECT id, reference, title, COALESCE(description, ''), severity, status,
			detected_at, occurred_at, resolved_at,
			COALESCE(clients_affected, 0), COALESCE(downtime_minutes, 0),
			COALESCE(economic_impact, ''), COALESCE(data_loss, false),
			COALESCE(vendor_name, ''), COALESCE(root_cause, ''),
			COALESCE(classification, ''), COALESCE(classification_override, ''),
			COALESCE(override_reason, '')
		FROM incidents
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`

	var agg Aggregate
	inc := &agg.Incident
	err := s.db.QueryRow(ctx, incidentQ, incidentID, orgID).Scan(
		&inc.ID, &inc.Reference, &inc.Title, &inc.Description, &inc.Severity, &inc.Status,
		&inc.DetectedAt, &inc.OccurredAt, &inc.ResolvedAt,
		&inc.ClientsAffected, &inc.DowntimeMinutes,
		&inc.EconomicImpact, &inc.DataLoss,
		&inc.VendorName, &inc.RootCause,
		&inc.Classification, &inc.ClassificationOverride,
		&inc.OverrideReason,
	)
	if err == pgx.ErrNoRows {
		return Aggregate{}, fmt.Errorf("incident %s: %w", incidentID, roi.ErrNoRecords)
	}
	if err != nil {
		return Aggregate{}, fmt.Errorf("load incident: %w", err)
	}

	const reportsQ = `SELECT report_type, reference, submitted_at
		FROM incident_reports
		WHERE incident_id = $1 AND deleted_at IS NULL
		ORDER BY submitted_at ASC`
	rows, err := s.db.Query(ctx, reportsQ, incidentID)
	if err != nil {
		return Aggregate{}, fmt.Errorf("load reports: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.Type, &r.Reference, &r.SubmittedAt); err != nil {
			return Aggregate{}, fmt.Errorf("scan report: %w", err)
		}
		agg.Reports = append(agg.Reports, r)
	}
	if err := rows.Err(); err != nil {
		return Aggregate{}, fmt.Errorf("load reports: %w", err)
	}

	const eventsQ = `SELECT occurred_at, description
		FROM incident_events
		WHERE incident_id = $1 AND deleted_at IS NULL
		ORDER BY occurred_at ASC`
	evRows, err := s.db.Query(ctx, eventsQ, incidentID)
	if err != nil {
		return Aggregate{}, fmt.Errorf("load events: %w", err)
	}
	defer evRows.Close()
	for evRows.Next() {
		var e Event
		if err := evRows.Scan(&e.At, &e.Description); err != nil {
			return Aggregate{}, fmt.Errorf("scan event: %w", err)
		}
		agg.Events = append(agg.Events, e)
	}
	if err := evRows.Err(); err != nil {
		return Aggregate{}, fmt.Errorf("load events: %w", err)
	}

	return agg, nil
}
