package roi

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Service provides the register-of-information business logic over a
// backing Postgres store.
type Service struct {
	db DBTX
}

// NewService creates a Service. db is typically a *pgxpool.Pool.
func NewService(db DBTX) *Service {
	return &Service{db: db}
}

// ListTemplates returns metadata for every registered template.
func (s *Service) ListTemplates() []TemplateInfo {
	defs := All()
	infos := make([]TemplateInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// OrgProfile loads the tenant's organization self-record, which feeds
// smart defaults at record creation.
func (s *Service) OrgProfile(ctx context.Context, orgID uuid.UUID) (OrgProfile, error) {
	const q = `SELECT id, name, COALESCE(lei, ''), COALESCE(country, ''), COALESCE(currency, '')
		FROM organizations WHERE id = $1 AND deleted_at IS NULL`

	var p OrgProfile
	err := s.db.QueryRow(ctx, q, orgID).Scan(&p.ID, &p.Name, &p.LEI, &p.Country, &p.Currency)
	if err == pgx.ErrNoRows {
		return OrgProfile{}, fmt.Errorf("%w: organization %s", ErrNoOrganization, orgID)
	}
	if err != nil {
		return OrgProfile{}, storeErr(OpFetch, err)
	}
	return p, nil
}

// quoteIdentifier quotes a SQL identifier for use in dynamically built
// queries. Identifiers come from static template configuration, never
// from user input; quoting guards against reserved words.
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}
