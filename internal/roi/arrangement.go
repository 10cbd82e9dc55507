package roi

// arrangement.go creates a full B_02.02 service arrangement: optional
// vendor, placeholder contract, then the ICT service row.
//
// The three inserts are independent; there is no transaction boundary.
// A failure partway through leaves partial state and is reported as a
// warning while the remaining steps continue. Best-effort semantics
// are intentional and mirror how the register behaves today.

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ArrangementTemplateID is the template the arrangement create path
// serves.
const ArrangementTemplateID = "B_02.02"

// ArrangementOptions controls vendor resolution during creation.
// With CreateVendor false and no UseExistingVendorID the arrangement
// is created without any vendor row.
type ArrangementOptions struct {
	CreateVendor        bool      `json:"createVendor"`
	UseExistingVendorID uuid.UUID `json:"useExistingVendorId"`
	VendorName          string    `json:"vendorName"`
	VendorLEI           string    `json:"vendorLei"`
	VendorCountry       string    `json:"vendorCountry"`
}

// ArrangementResult reports what the multi-step create produced.
type ArrangementResult struct {
	ServiceID     uuid.UUID `json:"serviceId"`
	ContractID    uuid.UUID `json:"contractId"`
	VendorID      uuid.UUID `json:"vendorId"`
	VendorCreated bool      `json:"vendorCreated"`
	Warnings      []string  `json:"warnings"`
}

// CreateArrangement performs the multi-step B_02.02 create.
func (s *Service) CreateArrangement(ctx context.Context, orgID uuid.UUID, record map[string]string, opts ArrangementOptions) (ArrangementResult, error) {
	def, ok := Get(ArrangementTemplateID)
	if !ok {
		return ArrangementResult{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, ArrangementTemplateID)
	}

	result := ArrangementResult{Warnings: []string{}}
	org, err := s.OrgProfile(ctx, orgID)
	if err != nil {
		return ArrangementResult{}, err
	}

	// Step 1: resolve the vendor.
	switch {
	case opts.UseExistingVendorID != uuid.Nil:
		result.VendorID = opts.UseExistingVendorID
	case opts.CreateVendor:
		id, err := s.insertVendor(ctx, orgID, org, opts)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("vendor creation failed: %v", MapError(err).Message))
		} else {
			result.VendorID = id
			result.VendorCreated = true
		}
	}

	// Step 2: placeholder contract carrying the arrangement reference.
	contractID, err := s.insertPlaceholderContract(ctx, orgID, org, result.VendorID, record)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("contract creation failed: %v", MapError(err).Message))
	} else {
		result.ContractID = contractID
	}

	// Step 3: the service row itself, through the template mapping.
	rec := make(map[string]string, len(record))
	for k, v := range record {
		rec[k] = v
	}
	if def.Defaults != nil {
		def.Defaults(org, rec)
	}
	internal, err := prepareRecord(def, rec)
	if err != nil {
		return result, err
	}

	q, args, err := buildServiceInsert(def, internal, orgID, contractID, result.VendorID)
	if err != nil {
		return result, err
	}
	if err := s.db.QueryRow(ctx, q, args...).Scan(&result.ServiceID); err != nil {
		return result, storeErr(OpInsert, err)
	}
	return result, nil
}

func (s *Service) insertVendor(ctx context.Context, orgID uuid.UUID, org OrgProfile, opts ArrangementOptions) (uuid.UUID, error) {
	name := strings.TrimSpace(opts.VendorName)
	if name == "" {
		return uuid.Nil, storeErr(OpInsert, fmt.Errorf("vendor name is required"))
	}
	country := opts.VendorCountry
	if country == "" {
		country = org.Country
	}

	const q = `INSERT INTO vendors (organization_id, name, lei, country)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, '')) RETURNING id`
	var id uuid.UUID
	if err := s.db.QueryRow(ctx, q, orgID, name, opts.VendorLEI, country).Scan(&id); err != nil {
		return uuid.Nil, storeErr(OpInsert, err)
	}
	return id, nil
}

func (s *Service) insertPlaceholderContract(ctx context.Context, orgID uuid.UUID, org OrgProfile, vendorID uuid.UUID, record map[string]string) (uuid.UUID, error) {
	ref := strings.TrimSpace(record["B_02.02.0010"])
	if ref == "" {
		ref = "ARR-" + uuid.New().String()[:8]
	}
	currency := org.Currency

	const q = `INSERT INTO contracts (organization_id, vendor_id, reference_number, contract_type, currency, description)
		VALUES ($1, NULLIF($2, '00000000-0000-0000-0000-000000000000')::uuid, $3, 'standalone', NULLIF($4, ''), 'Placeholder contract created with service arrangement')
		RETURNING id`
	var id uuid.UUID
	if err := s.db.QueryRow(ctx, q, orgID, vendorID.String(), ref, currency).Scan(&id); err != nil {
		return uuid.Nil, storeErr(OpInsert, err)
	}
	return id, nil
}

// buildServiceInsert extends the template insert with the FK columns
// resolved in the earlier steps.
func buildServiceInsert(def TemplateDefinition, internal map[string]string, orgID, contractID, vendorID uuid.UUID) (string, []interface{}, error) {
	cols := []string{"organization_id"}
	args := []interface{}{orgID}

	if contractID != uuid.Nil {
		cols = append(cols, "contract_id")
		args = append(args, contractID)
	}
	if vendorID != uuid.Nil {
		cols = append(cols, "vendor_id")
		args = append(args, vendorID)
	}

	for _, code := range def.Columns {
		v, ok := internal[code]
		if !ok {
			continue
		}
		m := def.Mapping[code]
		if m.Table != "" && m.Table != def.Info.Table {
			continue
		}
		dbVal, err := ToDBValue(v, m.Type)
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", code, err)
		}
		cols = append(cols, quoteIdentifier(m.Column))
		args = append(args, dbVal)
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
