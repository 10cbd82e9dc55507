package roi

// fetch.go retrieves backing rows for a template and shapes them into
// ordered column-value rows.
//
// Every query is tenant-scoped and filtered on "not soft-deleted".
// Rows come back in insertion order (created_at, id) so that
// row-index-based cell addressing stays valid between a fetch and a
// later update. Joined tables are resolved per foreign key with one
// batched query per table, issued concurrently.

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// colRef pairs an external column code with its backing column.
type colRef struct {
	code   string
	column string
}

// splitColumns partitions a template's non-computed columns by backing
// table, preserving template order within each table.
func splitColumns(def TemplateDefinition) (primary []colRef, joined map[string][]colRef) {
	joined = make(map[string][]colRef)
	for _, code := range def.Columns {
		m := def.Mapping[code]
		if m.Computed() {
			continue
		}
		ref := colRef{code: code, column: m.Column}
		table := m.Table
		if table == "" || table == def.Info.Table {
			primary = append(primary, ref)
		} else {
			joined[table] = append(joined[table], ref)
		}
	}
	return primary, joined
}

// scopeClause returns the tenant-isolation predicate for a table. The
// organizations self-record table is scoped by its own id; every other
// table carries an organization_id ownership column.
func scopeClause(table string, argIdx int) string {
	if table == "organizations" {
		return fmt.Sprintf("id = $%d", argIdx)
	}
	return fmt.Sprintf("organization_id = $%d", argIdx)
}

// buildPrimaryQuery builds the scoped, ordered select over the
// template's primary table: id first, then join FKs, then the mapped
// columns in template order.
func buildPrimaryQuery(def TemplateDefinition, primary []colRef) string {
	cols := make([]string, 0, len(primary)+len(def.Joins)+1)
	cols = append(cols, "id")
	for _, j := range def.Joins {
		cols = append(cols, quoteIdentifier(j.FK))
	}
	for _, ref := range primary {
		cols = append(cols, quoteIdentifier(ref.column))
	}
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s AND deleted_at IS NULL ORDER BY created_at ASC, id ASC",
		strings.Join(cols, ", "),
		quoteIdentifier(def.Info.Table),
		scopeClause(def.Info.Table, 1),
	)
}

// buildJoinQuery builds the batched lookup for one related table.
func buildJoinQuery(table string, refs []colRef) string {
	cols := make([]string, 0, len(refs)+1)
	cols = append(cols, "id")
	for _, ref := range refs {
		cols = append(cols, quoteIdentifier(ref.column))
	}
	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = ANY($1) AND deleted_at IS NULL",
		strings.Join(cols, ", "),
		quoteIdentifier(table),
	)
	if table != "organizations" {
		q += " AND organization_id = $2"
	}
	return q
}

// asUUID converts a scanned value to a uuid, tolerating the driver's
// raw byte and string forms. NULLs return false.
func asUUID(v interface{}) (uuid.UUID, bool) {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val), true
	case string:
		id, err := uuid.Parse(val)
		return id, err == nil
	default:
		return uuid.Nil, false
	}
}

// FetchTemplateData retrieves and shapes all backing rows for a
// template, scoped to the requesting organization.
func (s *Service) FetchTemplateData(ctx context.Context, orgID uuid.UUID, templateID string) (FetchResult, error) {
	def, ok := Get(templateID)
	if !ok {
		return FetchResult{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}

	primary, joined := splitColumns(def)

	rows, err := s.db.Query(ctx, buildPrimaryQuery(def, primary), orgID)
	if err != nil {
		return FetchResult{}, storeErr(OpFetch, err)
	}
	defer rows.Close()

	var (
		result FetchResult
		fks    []map[string]uuid.UUID // per row: join table -> FK value
	)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return FetchResult{}, storeErr(OpFetch, err)
		}

		id, _ := asUUID(vals[0])
		meta := RowMeta{IDs: map[string]uuid.UUID{def.Info.Table: id}}
		rowFKs := make(map[string]uuid.UUID, len(def.Joins))
		for i, j := range def.Joins {
			if fk, ok := asUUID(vals[1+i]); ok {
				rowFKs[j.Table] = fk
			}
		}

		row := make(Row, len(def.Columns))
		offset := 1 + len(def.Joins)
		for i, ref := range primary {
			row[ref.code] = FormatDBValue(vals[offset+i])
		}

		result.Rows = append(result.Rows, row)
		result.Meta = append(result.Meta, meta)
		fks = append(fks, rowFKs)
	}
	if err := rows.Err(); err != nil {
		return FetchResult{}, storeErr(OpFetch, err)
	}

	if err := s.resolveJoins(ctx, orgID, def, joined, &result, fks); err != nil {
		return FetchResult{}, err
	}

	applyComputed(def, result.Rows)
	result.Count = len(result.Rows)
	if result.Rows == nil {
		result.Rows = []Row{}
	}
	return result, nil
}

// resolveJoins fetches all related rows referenced by the fetched
// primary rows, one batched query per table issued concurrently, and
// merges their columns and identities into the result.
func (s *Service) resolveJoins(ctx context.Context, orgID uuid.UUID, def TemplateDefinition, joined map[string][]colRef, result *FetchResult, fks []map[string]uuid.UUID) error {
	if len(joined) == 0 || len(result.Rows) == 0 {
		return nil
	}

	type joinData struct {
		table string
		refs  []colRef
		byID  map[uuid.UUID][]interface{}
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([]*joinData, 0, len(joined))

	for table, refs := range joined {
		ids := make([]uuid.UUID, 0, len(fks))
		seen := make(map[uuid.UUID]bool)
		for _, rowFKs := range fks {
			if fk, ok := rowFKs[table]; ok && !seen[fk] {
				seen[fk] = true
				ids = append(ids, fk)
			}
		}
		jd := &joinData{table: table, refs: refs, byID: make(map[uuid.UUID][]interface{})}
		results = append(results, jd)
		if len(ids) == 0 {
			continue
		}

		g.Go(func() error {
			q := buildJoinQuery(jd.table, jd.refs)
			args := []interface{}{ids}
			if jd.table != "organizations" {
				args = append(args, orgID)
			}
			rows, err := s.db.Query(gctx, q, args...)
			if err != nil {
				return storeErr(OpFetch, err)
			}
			defer rows.Close()

			for rows.Next() {
				vals, err := rows.Values()
				if err != nil {
					return storeErr(OpFetch, err)
				}
				if id, ok := asUUID(vals[0]); ok {
					jd.byID[id] = vals[1:]
				}
			}
			return rows.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i := range result.Rows {
		for _, jd := range results {
			fk, ok := fks[i][jd.table]
			if !ok {
				continue
			}
			vals, found := jd.byID[fk]
			if !found {
				continue // related row soft-deleted or missing
			}
			result.Meta[i].IDs[jd.table] = fk
			for c, ref := range jd.refs {
				result.Rows[i][ref.code] = FormatDBValue(vals[c])
			}
		}
	}
	return nil
}

// applyComputed derives computed column values once all source columns
// are in place.
func applyComputed(def TemplateDefinition, rows []Row) {
	for _, code := range def.Columns {
		m := def.Mapping[code]
		if !m.Computed() {
			continue
		}
		for _, row := range rows {
			row[code] = m.Compute(row)
		}
	}
}
