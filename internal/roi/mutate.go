package roi

// mutate.go writes individual backing rows through the column mapping,
// in the reverse direction of the fetcher: external column code ->
// backing column, enumeration translation external -> internal.
//
// Soft delete sets deleted_at instead of removing rows; every read
// path filters it out, so a second delete of the same row is a no-op.

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CellAddr addresses the target row of a single-cell update. RecordID
// is the stable addressing primitive and should always be supplied
// when available; RowIndex falls back to re-running the ordered fetch
// and indexing by position, which races against concurrent edits.
type CellAddr struct {
	RecordID uuid.UUID
	RowIndex int // -1 when unset
}

// CreateResult is the outcome of creating a record.
type CreateResult struct {
	RecordID uuid.UUID `json:"recordId"`
	Record   Row       `json:"record"`
}

// setIfEmpty is the merge discipline for smart defaults: a default
// never overrides a caller-supplied value.
func setIfEmpty(rec map[string]string, key, value string) {
	if strings.TrimSpace(rec[key]) == "" && value != "" {
		rec[key] = value
	}
}

// translateForWrite converts a caller-supplied cell value into its
// internal representation and checks its format. Enum cells accept
// either the internal value or the external code.
func translateForWrite(m ColumnMapping, code, value string) (string, error) {
	value = strings.TrimSpace(value)
	if m.Computed() {
		return "", fmt.Errorf("%w: %s", ErrReadOnly, code)
	}
	if value == "" {
		return "", nil
	}
	if m.Enum != nil {
		if m.Enum.HasInternal(value) {
			return value, nil
		}
		if internal, ok := m.Enum.Internal(value); ok {
			return internal, nil
		}
		return "", fmt.Errorf("%q is not a valid value for column %s", value, code)
	}
	if err := CheckFormat(value, m.Type); err != nil {
		return "", fmt.Errorf("column %s: %w", code, err)
	}
	return value, nil
}

// prepareRecord maps caller-supplied external columns onto primary
// backing columns. Unknown columns fail with ErrInvalidColumn and
// computed columns with ErrReadOnly; columns mapped to joined tables
// are skipped (they are written through their own templates or the
// arrangement create path).
func prepareRecord(def TemplateDefinition, record map[string]string) (map[string]string, error) {
	internal := make(map[string]string, len(record))
	for code, value := range record {
		m, ok := def.Mapping[code]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidColumn, code)
		}
		if m.Table != "" && m.Table != def.Info.Table {
			continue
		}
		v, err := translateForWrite(m, code, value)
		if err != nil {
			return nil, err
		}
		if v != "" {
			internal[code] = v
		}
	}
	return internal, nil
}

// buildInsert builds the parameterized insert for a prepared record.
// Column iteration follows the template's declared order so the
// generated SQL is deterministic.
func buildInsert(def TemplateDefinition, internal map[string]string, orgID uuid.UUID) (string, []interface{}, error) {
	cols := make([]string, 0, len(internal)+1)
	args := make([]interface{}, 0, len(internal)+1)

	cols = append(cols, "organization_id")
	args = append(args, orgID)

	for _, code := range def.Columns {
		v, ok := internal[code]
		if !ok {
			continue
		}
		m := def.Mapping[code]
		dbVal, err := ToDBValue(v, m.Type)
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", code, err)
		}
		cols = append(cols, quoteIdentifier(m.Column))
		args = append(args, dbVal)
	}

	if len(cols) == 0 {
		return "", nil, fmt.Errorf("no writable columns in record")
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		quoteIdentifier(def.Info.Table),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)
	return q, args, nil
}

// Create inserts a new backing row for a template. Smart defaults from
// the organization profile fill required-but-unspecified fields,
// merged under any values the caller explicitly supplied.
//
// Templates backed by the organization self-record are update-only:
// the tenant's row already exists and an insert would produce a row
// the scoped fetch can never return.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, templateID string, record map[string]string) (CreateResult, error) {
	def, ok := Get(templateID)
	if !ok {
		return CreateResult{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}
	if def.Info.Table == "organizations" {
		return CreateResult{}, fmt.Errorf("%w: %s", ErrSelfRecord, templateID)
	}

	rec := make(map[string]string, len(record))
	for k, v := range record {
		rec[k] = v
	}
	if def.Defaults != nil {
		org, err := s.OrgProfile(ctx, orgID)
		if err != nil {
			return CreateResult{}, err
		}
		def.Defaults(org, rec)
	}

	internal, err := prepareRecord(def, rec)
	if err != nil {
		return CreateResult{}, err
	}

	q, args, err := buildInsert(def, internal, orgID)
	if err != nil {
		return CreateResult{}, err
	}

	var id uuid.UUID
	if err := s.db.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		return CreateResult{}, storeErr(OpInsert, err)
	}

	row := make(Row, len(internal))
	for code, v := range internal {
		row[code] = v
	}
	return CreateResult{RecordID: id, Record: row}, nil
}

// resolveTarget finds the backing row a cell update must hit. For
// columns on the primary table a supplied RecordID is used directly;
// joined columns and index addressing re-run the ordered fetch so the
// related row is resolved through the source row's foreign key.
func (s *Service) resolveTarget(ctx context.Context, orgID uuid.UUID, def TemplateDefinition, addr CellAddr, targetTable string) (uuid.UUID, error) {
	if targetTable == def.Info.Table && addr.RecordID != uuid.Nil {
		return addr.RecordID, nil
	}

	res, err := s.FetchTemplateData(ctx, orgID, def.Info.ID)
	if err != nil {
		return uuid.Nil, err
	}

	idx := -1
	if addr.RecordID != uuid.Nil {
		for i, meta := range res.Meta {
			if meta.IDs[def.Info.Table] == addr.RecordID {
				idx = i
				break
			}
		}
	} else if addr.RowIndex >= 0 && addr.RowIndex < len(res.Meta) {
		idx = addr.RowIndex
	}
	if idx < 0 {
		return uuid.Nil, ErrNoRecords
	}

	id, ok := res.Meta[idx].IDs[targetTable]
	if !ok || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: row %d has no %s record", ErrNoRecords, idx, targetTable)
	}
	return id, nil
}

// UpdateCell updates a single cell of a template row.
func (s *Service) UpdateCell(ctx context.Context, orgID uuid.UUID, templateID string, addr CellAddr, column, value string) (uuid.UUID, error) {
	def, ok := Get(templateID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}
	m, ok := def.Mapping[column]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidColumn, column)
	}
	if m.Computed() {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrReadOnly, column)
	}

	internal, err := translateForWrite(m, column, value)
	if err != nil {
		return uuid.Nil, err
	}
	dbVal, err := ToDBValue(internal, m.Type)
	if err != nil {
		return uuid.Nil, err
	}

	targetTable := m.Table
	if targetTable == "" {
		targetTable = def.Info.Table
	}
	targetID, err := s.resolveTarget(ctx, orgID, def, addr, targetTable)
	if err != nil {
		return uuid.Nil, err
	}

	// Same tenant scope as the read path: organizations by its own id,
	// every other table by its ownership column.
	q := fmt.Sprintf(
		"UPDATE %s SET %s = $1 WHERE id = $2 AND deleted_at IS NULL AND %s",
		quoteIdentifier(targetTable),
		quoteIdentifier(m.Column),
		scopeClause(targetTable, 3),
	)
	args := []interface{}{dbVal, targetID, orgID}

	tag, err := s.db.Exec(ctx, q, args...)
	if err != nil {
		return uuid.Nil, storeErr(OpUpdate, err)
	}
	if tag.RowsAffected() == 0 {
		return uuid.Nil, ErrNoRecords
	}
	return targetID, nil
}

// SoftDelete marks template rows deleted by setting deleted_at.
// Rows may be addressed by record ID or by row index (resolved through
// the same ordered fetch). Already-deleted rows are skipped silently,
// so a repeated delete is idempotent. Returns the number of rows newly
// marked deleted.
func (s *Service) SoftDelete(ctx context.Context, orgID uuid.UUID, templateID string, recordIDs []uuid.UUID, rowIndices []int) (int, error) {
	def, ok := Get(templateID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}

	ids := make([]uuid.UUID, 0, len(recordIDs)+len(rowIndices))
	seen := make(map[uuid.UUID]bool)
	for _, id := range recordIDs {
		if id != uuid.Nil && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if len(rowIndices) > 0 {
		res, err := s.FetchTemplateData(ctx, orgID, templateID)
		if err != nil {
			return 0, err
		}
		for _, idx := range rowIndices {
			if idx < 0 || idx >= len(res.Meta) {
				continue
			}
			id := res.Meta[idx].IDs[def.Info.Table]
			if id != uuid.Nil && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	if len(ids) == 0 {
		return 0, nil
	}

	q := fmt.Sprintf(
		"UPDATE %s SET deleted_at = now() WHERE id = ANY($1) AND deleted_at IS NULL AND %s",
		quoteIdentifier(def.Info.Table),
		scopeClause(def.Info.Table, 2),
	)
	args := []interface{}{ids, orgID}

	tag, err := s.db.Exec(ctx, q, args...)
	if err != nil {
		return 0, storeErr(OpDelete, err)
	}
	return int(tag.RowsAffected()), nil
}
