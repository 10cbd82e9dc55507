// Package roi implements the template-driven mapping, validation and
// export engine for the ESA Register of Information (RoI) reports.
// This package has no HTTP dependencies and can be driven by any
// transport (web handlers, CLI).
package roi

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// FieldType describes the expected value format of a template column.
// Values circulate through the engine as strings in their internal
// representation; the type drives format validation and the typed
// conversion applied at the database boundary.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldNumeric
	FieldPercent
	FieldInteger
	FieldBool
	FieldCountry
	FieldCurrency
	FieldLEI
)

// ComputedColumn is the sentinel backing-column name for derived
// columns. A computed column is populated at fetch time and is never
// writable through the record mutator.
const ComputedColumn = "_computed"

// Row is one shaped template row, keyed by external column code.
// Cell values are the internal representation; "" means absent/NULL.
type Row map[string]string

// ComputeFunc derives the value of a computed column from the rest of
// the row (internal representations).
type ComputeFunc func(row Row) string

// ColumnMapping declares how one external column code maps onto the
// backing store.
type ColumnMapping struct {
	Table    string       // backing table ("" means the template's primary table)
	Column   string       // backing column, or ComputedColumn
	Type     FieldType    // value format
	Required bool         // flagged required by the template
	Enum     *Enumeration // set for FieldEnum columns
	Compute  ComputeFunc  // set for computed columns
}

// Computed reports whether the mapping targets the computed sentinel.
func (m ColumnMapping) Computed() bool {
	return m.Column == ComputedColumn
}

// TemplateInfo identifies a registered report template.
type TemplateInfo struct {
	ID          string // external dot-segmented code, e.g. "B_01.01"
	Name        string
	Description string
	Standard    string // external standard reference
	Table       string // primary backing table
}

// Join declares a fan-out relation: rows of the primary table carry a
// foreign key into a related table whose columns also appear in the
// template.
type Join struct {
	Table string // related table name
	FK    string // FK column on the primary table
}

// Issue is a single validation finding addressed by row and column.
type Issue struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// RuleFunc is a template-specific cross-field check run once per row.
type RuleFunc func(idx int, row Row) (errs, warns []Issue)

// OrgProfile is the ambient tenant context used for smart defaults.
type OrgProfile struct {
	ID       uuid.UUID
	Name     string
	LEI      string
	Country  string
	Currency string
}

// DefaultsFunc fills required-but-unspecified fields on a new record
// from the organization profile. Implementations must only set keys
// that are absent or empty: caller-supplied values always win.
type DefaultsFunc func(org OrgProfile, rec map[string]string)

// TemplateDefinition contains everything needed to fetch, validate,
// export and mutate one report template.
type TemplateDefinition struct {
	Info     TemplateInfo
	Columns  []string                 // declared column order (external codes)
	Mapping  map[string]ColumnMapping // external code -> mapping
	Joins    []Join
	Rules    []RuleFunc
	Defaults DefaultsFunc
}

// RowMeta carries the backing-row identities behind one fetched row,
// keyed by table name. For joined templates this includes the related
// rows resolved through foreign keys, so that a cell update on a
// joined column can target the correct backing record.
type RowMeta struct {
	IDs map[string]uuid.UUID `json:"ids"`
}

// FetchResult is the shaped output of a template fetch.
type FetchResult struct {
	Rows  []Row     `json:"rows"`
	Meta  []RowMeta `json:"meta"`
	Count int       `json:"count"`
}

// ValidationResult reports the outcome of validating fetched rows.
// Error and warning detail lists are capped for presentation; the
// counts always reflect the full totals.
type ValidationResult struct {
	IsValid      bool    `json:"isValid"`
	Errors       []Issue `json:"errors"`
	Warnings     []Issue `json:"warnings"`
	ErrorCount   int     `json:"errorCount"`
	WarningCount int     `json:"warningCount"`
}

// Artifact is an export file produced on demand.
type Artifact struct {
	Data        []byte
	FileName    string
	ContentType string
	RowCount    int
	ColumnCount int
}
