package templates

import "github.com/meridiangrc/roi/internal/roi"

func init() {
	registerB9901()
}

// B_99.01 - definitions. The second segment of the external code
// itself contains an underscore, which is why URL normalization may
// only convert the last one ("b_99_01" -> "B_99.01").
func registerB9901() {
	roi.Register(roi.TemplateDefinition{
		Info: roi.TemplateInfo{
			ID:          "B_99.01",
			Name:        "Definitions",
			Description: "Definitions used by the entity across the register",
			Standard:    "ESA 2024 01 - Annex V",
			Table:       "organizations",
		},
		Columns: []string{
			"B_99.01.0010",
			"B_99.01.0020",
		},
		Mapping: map[string]roi.ColumnMapping{
			"B_99.01.0010": {Column: "lei", Type: roi.FieldLEI, Required: true},
			"B_99.01.0020": {Column: "group_definition", Type: roi.FieldText},
		},
		Defaults: func(org roi.OrgProfile, rec map[string]string) {
			setDefault(rec, "B_99.01.0010", org.LEI)
		},
	})
}
