package roi

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// statusEnum is a small dictionary used across tests.
var statusEnum = NewEnumeration(
	EnumPair{Internal: "active", External: "ext:active"},
	EnumPair{Internal: "terminated", External: "ext:terminated"},
)

// testTemplate registers a representative template and returns its ID.
// The registry is cleared first, so each test starts from a known
// catalog.
func testTemplate(t *testing.T) string {
	t.Helper()
	Clear()
	t.Cleanup(Clear)

	Register(TemplateDefinition{
		Info: TemplateInfo{
			ID:    "T_01.01",
			Name:  "Test template",
			Table: "contracts",
		},
		Columns: []string{
			"T_01.01.0010",
			"T_01.01.0020",
			"T_01.01.0030",
			"T_01.01.0040",
			"T_01.01.0050",
		},
		Mapping: map[string]ColumnMapping{
			"T_01.01.0010": {Column: "reference_number", Type: FieldText, Required: true},
			"T_01.01.0020": {Column: "status", Type: FieldEnum, Enum: statusEnum, Required: true},
			"T_01.01.0030": {Column: "start_date", Type: FieldDate},
			"T_01.01.0040": {Column: "annual_expense", Type: FieldNumeric},
			"T_01.01.0050": {Column: ComputedColumn, Type: FieldText, Compute: func(row Row) string {
				return "derived-" + row["T_01.01.0010"]
			}},
		},
	})
	return "T_01.01"
}

// organizationsTestTemplate registers a template backed by the
// organizations self-record table.
func organizationsTestTemplate(t *testing.T) string {
	t.Helper()
	Clear()
	t.Cleanup(Clear)

	Register(TemplateDefinition{
		Info: TemplateInfo{
			ID:    "T_99.01",
			Name:  "Self-record test template",
			Table: "organizations",
		},
		Columns: []string{"T_99.01.0010", "T_99.01.0020"},
		Mapping: map[string]ColumnMapping{
			"T_99.01.0010": {Column: "name", Type: FieldText, Required: true},
			"T_99.01.0020": {Column: "lei", Type: FieldLEI},
		},
	})
	return "T_99.01"
}

// fakeDB is a DBTX stub recording the statements it receives. queryFn,
// when set, serves Query calls; rowScans are consumed in order by
// QueryRow before falling back to rowScan.
type fakeDB struct {
	execSQL  []string
	execArgs [][]interface{}
	execTag  pgconn.CommandTag
	execErr  error

	queryFn func(sql string, args []interface{}) (pgx.Rows, error)

	rowScan  func(dest ...interface{}) error
	rowScans []func(dest ...interface{}) error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return f.execTag, f.execErr
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	if f.queryFn == nil {
		panic("Query not stubbed")
	}
	return f.queryFn(sql, args)
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	if len(f.rowScans) > 0 {
		next := f.rowScans[0]
		f.rowScans = f.rowScans[1:]
		return fakeRow{scan: next}
	}
	return fakeRow{scan: f.rowScan}
}

type fakeRow struct {
	scan func(dest ...interface{}) error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// fakeRows plays canned value rows back through the pgx.Rows interface.
type fakeRows struct {
	vals [][]interface{}
	idx  int
}

func (r *fakeRows) Next() bool                                   { r.idx++; return r.idx <= len(r.vals) }
func (r *fakeRows) Values() ([]interface{}, error)               { return r.vals[r.idx-1], nil }
func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Scan(...interface{}) error                    { return pgx.ErrNoRows }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

// idScan stubs a RETURNING id scan.
func idScan(id uuid.UUID) func(dest ...interface{}) error {
	return func(dest ...interface{}) error {
		*(dest[0].(*uuid.UUID)) = id
		return nil
	}
}

// orgScan stubs the organization profile select.
func orgScan(orgID uuid.UUID) func(dest ...interface{}) error {
	return func(dest ...interface{}) error {
		*(dest[0].(*uuid.UUID)) = orgID
		*(dest[1].(*string)) = "Acme Bank"
		*(dest[2].(*string)) = "529900T8BM49AURSDO55"
		*(dest[3].(*string)) = "DE"
		*(dest[4].(*string)) = "EUR"
		return nil
	}
}
