package templates

import (
	"time"

	"github.com/meridiangrc/roi/internal/roi"
)

func init() {
	registerB0101()
	registerB0102()
}

// B_01.01 - the entity maintaining the register of information.
// Single-row template over the organization's own self-record.
func registerB0101() {
	roi.Register(roi.TemplateDefinition{
		Info: roi.TemplateInfo{
			ID:          "B_01.01",
			Name:        "Entity maintaining the register",
			Description: "Identification of the financial entity maintaining the register of information",
			Standard:    "ESA 2024 01 - Annex I",
			Table:       "organizations",
		},
		Columns: []string{
			"B_01.01.0010",
			"B_01.01.0020",
			"B_01.01.0030",
			"B_01.01.0040",
			"B_01.01.0050",
			"B_01.01.0060",
		},
		Mapping: map[string]roi.ColumnMapping{
			"B_01.01.0010": {Column: "lei", Type: roi.FieldLEI, Required: true},
			"B_01.01.0020": {Column: "name", Type: roi.FieldText, Required: true},
			"B_01.01.0030": {Column: "country", Type: roi.FieldCountry, Required: true},
			"B_01.01.0040": {Column: "entity_type", Type: roi.FieldEnum, Enum: entityType, Required: true},
			"B_01.01.0050": {Column: "competent_authority", Type: roi.FieldText},
			"B_01.01.0060": {Column: roi.ComputedColumn, Type: roi.FieldDate, Compute: reportingDate},
		},
		Defaults: func(org roi.OrgProfile, rec map[string]string) {
			setDefault(rec, "B_01.01.0010", org.LEI)
			setDefault(rec, "B_01.01.0020", org.Name)
			setDefault(rec, "B_01.01.0030", org.Country)
		},
	})
}

// B_01.02 - entities within the scope of consolidation.
func registerB0102() {
	roi.Register(roi.TemplateDefinition{
		Info: roi.TemplateInfo{
			ID:          "B_01.02",
			Name:        "Entities in scope",
			Description: "Financial entities within the scope of the register",
			Standard:    "ESA 2024 01 - Annex I",
			Table:       "entities",
		},
		Columns: []string{
			"B_01.02.0010",
			"B_01.02.0020",
			"B_01.02.0030",
			"B_01.02.0040",
			"B_01.02.0050",
			"B_01.02.0060",
			"B_01.02.0070",
		},
		Mapping: map[string]roi.ColumnMapping{
			"B_01.02.0010": {Column: "lei", Type: roi.FieldLEI, Required: true},
			"B_01.02.0020": {Column: "name", Type: roi.FieldText, Required: true},
			"B_01.02.0030": {Column: "country", Type: roi.FieldCountry, Required: true},
			"B_01.02.0040": {Column: "entity_type", Type: roi.FieldEnum, Enum: entityType},
			"B_01.02.0050": {Column: "hierarchy", Type: roi.FieldEnum, Enum: hierarchy, Required: true},
			"B_01.02.0060": {Column: "parent_lei", Type: roi.FieldLEI},
			"B_01.02.0070": {Column: "integration_date", Type: roi.FieldDate},
		},
		Rules: []roi.RuleFunc{
			requiredWhenRule("B_01.02.0050", "subsidiary", "B_01.02.0060",
				"subsidiaries should identify their parent LEI"),
		},
		Defaults: func(org roi.OrgProfile, rec map[string]string) {
			setDefault(rec, "B_01.02.0030", org.Country)
		},
	})
}

// reportingDate stamps the register's reference date on each row.
func reportingDate(roi.Row) string {
	return time.Now().Format("2006-01-02")
}

// setDefault applies a smart default without overriding values the
// caller explicitly supplied.
func setDefault(rec map[string]string, key, value string) {
	if rec[key] == "" && value != "" {
		rec[key] = value
	}
}
