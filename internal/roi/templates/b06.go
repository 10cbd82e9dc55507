package templates

import "github.com/meridiangrc/roi/internal/roi"

func init() {
	registerB0601()
}

// B_06.01 - functions identification.
func registerB0601() {
	roi.Register(roi.TemplateDefinition{
		Info: roi.TemplateInfo{
			ID:          "B_06.01",
			Name:        "Functions identification",
			Description: "Business functions supported by ICT services",
			Standard:    "ESA 2024 01 - Annex IV",
			Table:       "business_functions",
		},
		Columns: []string{
			"B_06.01.0010",
			"B_06.01.0020",
			"B_06.01.0030",
			"B_06.01.0040",
			"B_06.01.0050",
			"B_06.01.0060",
			"B_06.01.0070",
		},
		Mapping: map[string]roi.ColumnMapping{
			"B_06.01.0010": {Column: "identifier", Type: roi.FieldText, Required: true},
			"B_06.01.0020": {Column: "name", Type: roi.FieldText, Required: true},
			"B_06.01.0030": {Column: "licensed_activity", Type: roi.FieldText},
			"B_06.01.0040": {Column: "criticality", Type: roi.FieldEnum, Enum: yesNo, Required: true},
			"B_06.01.0050": {Column: "criticality_reason", Type: roi.FieldText},
			"B_06.01.0060": {Column: "last_assessed", Type: roi.FieldDate},
			"B_06.01.0070": {Column: "recovery_time_hours", Type: roi.FieldInteger},
		},
		Rules: []roi.RuleFunc{
			requiredWhenRule("B_06.01.0040", "yes", "B_06.01.0050",
				"critical functions should state the reason for criticality"),
		},
	})
}
