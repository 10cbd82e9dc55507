package roi

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateForWrite(t *testing.T) {
	enumMapping := ColumnMapping{Column: "status", Type: FieldEnum, Enum: statusEnum}

	// Internal value accepted as-is
	v, err := translateForWrite(enumMapping, "C1", "active")
	if err != nil || v != "active" {
		t.Errorf("internal value: v=%q err=%v", v, err)
	}

	// External code translated to internal
	v, err = translateForWrite(enumMapping, "C1", "ext:terminated")
	if err != nil || v != "terminated" {
		t.Errorf("external code: v=%q err=%v", v, err)
	}

	// Non-member rejected
	if _, err = translateForWrite(enumMapping, "C1", "bogus"); err == nil {
		t.Error("non-member enum value accepted")
	}

	// Computed columns are read-only
	computed := ColumnMapping{Column: ComputedColumn, Type: FieldText}
	if _, err = translateForWrite(computed, "C2", "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("computed column error = %v, want ErrReadOnly", err)
	}

	// Format checked for plain fields
	dateMapping := ColumnMapping{Column: "start_date", Type: FieldDate}
	if _, err = translateForWrite(dateMapping, "C3", "99/99/99"); err == nil {
		t.Error("malformed date accepted")
	}

	// Empty clears
	v, err = translateForWrite(dateMapping, "C3", "  ")
	if err != nil || v != "" {
		t.Errorf("empty value: v=%q err=%v", v, err)
	}
}

func TestSetIfEmpty(t *testing.T) {
	rec := map[string]string{"a": "caller", "b": "  "}
	setIfEmpty(rec, "a", "default")
	setIfEmpty(rec, "b", "default")
	setIfEmpty(rec, "c", "default")
	setIfEmpty(rec, "d", "")

	if rec["a"] != "caller" {
		t.Error("default overwrote caller value")
	}
	if rec["b"] != "default" || rec["c"] != "default" {
		t.Errorf("defaults not applied: %v", rec)
	}
	if _, ok := rec["d"]; ok {
		t.Error("empty default should not create a key")
	}
}

func TestPrepareRecord(t *testing.T) {
	id := testTemplate(t)
	def, _ := Get(id)

	internal, err := prepareRecord(def, map[string]string{
		"T_01.01.0010": "CTR-001",
		"T_01.01.0020": "ext:active", // external code
		"T_01.01.0030": "",           // dropped
	})
	if err != nil {
		t.Fatalf("prepareRecord() error = %v", err)
	}
	if internal["T_01.01.0020"] != "active" {
		t.Errorf("enum not translated: %v", internal)
	}
	if _, ok := internal["T_01.01.0030"]; ok {
		t.Error("empty value kept")
	}

	if _, err := prepareRecord(def, map[string]string{"B_XX.0010": "x"}); !errors.Is(err, ErrInvalidColumn) {
		t.Errorf("unknown column error = %v, want ErrInvalidColumn", err)
	}
	if _, err := prepareRecord(def, map[string]string{"T_01.01.0050": "x"}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("computed column error = %v, want ErrReadOnly", err)
	}
}

func TestBuildInsert(t *testing.T) {
	id := testTemplate(t)
	def, _ := Get(id)
	orgID := uuid.New()

	q, args, err := buildInsert(def, map[string]string{
		"T_01.01.0010": "CTR-001",
		"T_01.01.0030": "2025-01-01",
	}, orgID)
	if err != nil {
		t.Fatalf("buildInsert() error = %v", err)
	}

	if !strings.HasPrefix(q, `INSERT INTO "contracts"`) {
		t.Errorf("query = %s", q)
	}
	if !strings.Contains(q, "organization_id") {
		t.Error("insert misses tenant scope column")
	}
	if !strings.Contains(q, "RETURNING id") {
		t.Error("insert misses RETURNING id")
	}
	// org scope + two columns
	if len(args) != 3 {
		t.Errorf("args = %d, want 3", len(args))
	}
	if args[0] != orgID {
		t.Error("first arg should be the organization ID")
	}

	if _, _, err := buildInsert(def, map[string]string{}, orgID); err == nil {
		t.Error("empty record accepted")
	}
}

func TestCreateInsertsAndReturnsID(t *testing.T) {
	id := testTemplate(t)
	orgID := uuid.New()
	newID := uuid.New()

	db := &fakeDB{
		rowScan: func(dest ...interface{}) error {
			*(dest[0].(*uuid.UUID)) = newID
			return nil
		},
	}
	svc := NewService(db)

	result, err := svc.Create(context.Background(), orgID, id, map[string]string{
		"T_01.01.0010": "CTR-001",
		"T_01.01.0020": "active",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.RecordID != newID {
		t.Errorf("RecordID = %s, want %s", result.RecordID, newID)
	}
	if result.Record["T_01.01.0010"] != "CTR-001" {
		t.Errorf("Record = %v", result.Record)
	}
	if len(db.execSQL) != 1 || !strings.HasPrefix(db.execSQL[0], `INSERT INTO "contracts"`) {
		t.Errorf("statements = %v", db.execSQL)
	}
}

func TestUpdateCellByRecordID(t *testing.T) {
	id := testTemplate(t)
	orgID := uuid.New()
	recordID := uuid.New()

	db := &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 1")}
	svc := NewService(db)

	got, err := svc.UpdateCell(context.Background(), orgID, id,
		CellAddr{RecordID: recordID, RowIndex: -1}, "T_01.01.0020", "ext:terminated")
	if err != nil {
		t.Fatalf("UpdateCell() error = %v", err)
	}
	if got != recordID {
		t.Errorf("target = %s, want %s", got, recordID)
	}

	q := db.execSQL[0]
	if !strings.Contains(q, `UPDATE "contracts" SET "status" = $1`) {
		t.Errorf("query = %s", q)
	}
	if !strings.Contains(q, "deleted_at IS NULL") {
		t.Error("update misses soft-delete filter")
	}
	if !strings.Contains(q, "organization_id = $3") {
		t.Error("update misses tenant scope")
	}
}

func TestUpdateCellNoRowsMatched(t *testing.T) {
	id := testTemplate(t)

	db := &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 0")}
	svc := NewService(db)

	_, err := svc.UpdateCell(context.Background(), uuid.New(), id,
		CellAddr{RecordID: uuid.New(), RowIndex: -1}, "T_01.01.0010", "x")
	if !errors.Is(err, ErrNoRecords) {
		t.Errorf("error = %v, want ErrNoRecords", err)
	}
}

func TestUpdateCellRejections(t *testing.T) {
	id := testTemplate(t)
	svc := NewService(&fakeDB{})
	addr := CellAddr{RecordID: uuid.New(), RowIndex: -1}

	if _, err := svc.UpdateCell(context.Background(), uuid.New(), id, addr, "NOPE", "x"); !errors.Is(err, ErrInvalidColumn) {
		t.Errorf("unknown column error = %v", err)
	}
	if _, err := svc.UpdateCell(context.Background(), uuid.New(), id, addr, "T_01.01.0050", "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("computed column error = %v", err)
	}
	if _, err := svc.UpdateCell(context.Background(), uuid.New(), "B_XX.99", addr, "C", "x"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("unknown template error = %v", err)
	}
}

func TestSoftDeleteByRecordIDs(t *testing.T) {
	id := testTemplate(t)
	orgID := uuid.New()
	a, b := uuid.New(), uuid.New()

	db := &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 2")}
	svc := NewService(db)

	// Duplicates and nil IDs collapse
	deleted, err := svc.SoftDelete(context.Background(), orgID, id,
		[]uuid.UUID{a, b, a, uuid.Nil}, nil)
	if err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	q := db.execSQL[0]
	if !strings.Contains(q, "SET deleted_at = now()") {
		t.Errorf("query = %s", q)
	}
	if !strings.Contains(q, "deleted_at IS NULL") {
		t.Error("delete misses already-deleted filter")
	}
	ids := db.execArgs[0][0].([]uuid.UUID)
	if len(ids) != 2 {
		t.Errorf("deduped ids = %v", ids)
	}
}

func TestUpdateCellJoinedColumnTargetsRelatedRow(t *testing.T) {
	def := joinedTestTemplate(t)
	orgID := uuid.New()
	serviceID := uuid.New()
	vendorID := uuid.New()

	newDB := func() *fakeDB {
		return &fakeDB{
			execTag: pgconn.NewCommandTag("UPDATE 1"),
			queryFn: func(sql string, _ []interface{}) (pgx.Rows, error) {
				if strings.Contains(sql, `FROM "ict_services"`) {
					return &fakeRows{vals: [][]interface{}{
						{[16]byte(serviceID), [16]byte(vendorID), "svc-1"},
					}}, nil
				}
				// vendors join: id, lei, name
				return &fakeRows{vals: [][]interface{}{
					{[16]byte(vendorID), "529900T8BM49AURSDO55", "Vendor One"},
				}}, nil
			},
		}
	}

	// Row-index addressing resolves the vendor through the service
	// row's foreign key.
	db := newDB()
	svc := NewService(db)
	got, err := svc.UpdateCell(context.Background(), orgID, def.Info.ID,
		CellAddr{RowIndex: 0}, "T_05.01.0030", "Vendor Two")
	if err != nil {
		t.Fatalf("UpdateCell() error = %v", err)
	}
	if got != vendorID {
		t.Errorf("target = %s, want vendor %s", got, vendorID)
	}

	q := db.execSQL[len(db.execSQL)-1]
	if !strings.Contains(q, `UPDATE "vendors" SET "name" = $1`) {
		t.Errorf("query = %s", q)
	}
	args := db.execArgs[len(db.execArgs)-1]
	if args[1] != vendorID {
		t.Errorf("target id arg = %v, want %s", args[1], vendorID)
	}
	if args[2] != orgID {
		t.Errorf("scope arg = %v, want %s", args[2], orgID)
	}

	// Record-ID addressing names the service row; the write still lands
	// on the vendor row behind it.
	db = newDB()
	svc = NewService(db)
	got, err = svc.UpdateCell(context.Background(), orgID, def.Info.ID,
		CellAddr{RecordID: serviceID, RowIndex: -1}, "T_05.01.0030", "Vendor Three")
	if err != nil {
		t.Fatalf("UpdateCell() error = %v", err)
	}
	if got != vendorID {
		t.Errorf("target = %s, want vendor %s", got, vendorID)
	}
}

func TestUpdateCellOrganizationsScopedToCaller(t *testing.T) {
	id := organizationsTestTemplate(t)
	orgID := uuid.New()

	db := &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 1")}
	svc := NewService(db)

	got, err := svc.UpdateCell(context.Background(), orgID, id,
		CellAddr{RecordID: orgID, RowIndex: -1}, "T_99.01.0020", "529900T8BM49AURSDO55")
	if err != nil {
		t.Fatalf("UpdateCell() error = %v", err)
	}
	if got != orgID {
		t.Errorf("target = %s, want %s", got, orgID)
	}

	q := db.execSQL[0]
	if !strings.Contains(q, "AND id = $3") {
		t.Errorf("query misses caller scope: %s", q)
	}
	if strings.Contains(q, "organization_id") {
		t.Error("organizations table must not be scoped by organization_id")
	}
	if db.execArgs[0][2] != orgID {
		t.Errorf("scope arg = %v, want %s", db.execArgs[0][2], orgID)
	}

	// A foreign record ID never matches the caller scope.
	db = &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 0")}
	svc = NewService(db)
	_, err = svc.UpdateCell(context.Background(), orgID, id,
		CellAddr{RecordID: uuid.New(), RowIndex: -1}, "T_99.01.0020", "529900T8BM49AURSDO55")
	if !errors.Is(err, ErrNoRecords) {
		t.Errorf("foreign record error = %v, want ErrNoRecords", err)
	}
	if db.execArgs[0][2] != orgID {
		t.Error("caller scope must bind even for foreign record IDs")
	}
}

func TestSoftDeleteOrganizationsScopedToCaller(t *testing.T) {
	id := organizationsTestTemplate(t)
	orgID := uuid.New()

	db := &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 0")}
	svc := NewService(db)

	deleted, err := svc.SoftDelete(context.Background(), orgID, id,
		[]uuid.UUID{uuid.New()}, nil)
	if err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}

	q := db.execSQL[0]
	if !strings.Contains(q, "AND id = $2") {
		t.Errorf("query misses caller scope: %s", q)
	}
	if strings.Contains(q, "organization_id") {
		t.Error("organizations table must not be scoped by organization_id")
	}
	if db.execArgs[0][1] != orgID {
		t.Errorf("scope arg = %v, want %s", db.execArgs[0][1], orgID)
	}
}

func TestCreateRejectsSelfRecordTemplate(t *testing.T) {
	id := organizationsTestTemplate(t)
	db := &fakeDB{}
	svc := NewService(db)

	_, err := svc.Create(context.Background(), uuid.New(), id,
		map[string]string{"T_99.01.0010": "Acme Bank"})
	if !errors.Is(err, ErrSelfRecord) {
		t.Errorf("error = %v, want ErrSelfRecord", err)
	}
	if len(db.execSQL) != 0 {
		t.Errorf("no statement should run, got %v", db.execSQL)
	}
}

func TestSoftDeleteNothingAddressed(t *testing.T) {
	id := testTemplate(t)
	db := &fakeDB{}
	svc := NewService(db)

	deleted, err := svc.SoftDelete(context.Background(), uuid.New(), id, nil, nil)
	if err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
	if len(db.execSQL) != 0 {
		t.Error("no statement should run when nothing is addressed")
	}
}
