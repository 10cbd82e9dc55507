package templates

import "github.com/meridiangrc/roi/internal/roi"

func init() {
	registerB0201()
	registerB0202()
}

// B_02.01 - contractual arrangements, general information.
func registerB0201() {
	roi.Register(roi.TemplateDefinition{
		Info: roi.TemplateInfo{
			ID:          "B_02.01",
			Name:        "Contractual arrangements - general information",
			Description: "General information on contractual arrangements with ICT third-party providers",
			Standard:    "ESA 2024 01 - Annex II",
			Table:       "contracts",
		},
		Columns: []string{
			"B_02.01.0010",
			"B_02.01.0020",
			"B_02.01.0030",
			"B_02.01.0040",
			"B_02.01.0050",
			"B_02.01.0060",
			"B_02.01.0070",
			"B_02.01.0080",
		},
		Mapping: map[string]roi.ColumnMapping{
			"B_02.01.0010": {Column: "reference_number", Type: roi.FieldText, Required: true},
			"B_02.01.0020": {Column: "contract_type", Type: roi.FieldEnum, Enum: contractType, Required: true},
			"B_02.01.0030": {Column: "overarching_reference", Type: roi.FieldText},
			"B_02.01.0040": {Column: "currency", Type: roi.FieldCurrency},
			"B_02.01.0050": {Column: "annual_expense", Type: roi.FieldNumeric},
			"B_02.01.0060": {Column: "start_date", Type: roi.FieldDate, Required: true},
			"B_02.01.0070": {Column: "end_date", Type: roi.FieldDate},
			"B_02.01.0080": {Column: "notice_period_days", Type: roi.FieldInteger},
		},
		Rules: []roi.RuleFunc{
			dateOrderRule("B_02.01.0060", "B_02.01.0070"),
			nonNegativeRule("B_02.01.0050"),
			requiredWhenRule("B_02.01.0020", "subsequent", "B_02.01.0030",
				"subsequent arrangements should reference their overarching arrangement"),
		},
		Defaults: func(org roi.OrgProfile, rec map[string]string) {
			setDefault(rec, "B_02.01.0040", org.Currency)
		},
	})
}

// B_02.02 - contractual arrangements, specific information. One row
// per ICT service, denormalized across the service's contract and
// vendor through their foreign keys.
func registerB0202() {
	roi.Register(roi.TemplateDefinition{
		Info: roi.TemplateInfo{
			ID:          "B_02.02",
			Name:        "Contractual arrangements - specific information",
			Description: "ICT services provided under each contractual arrangement",
			Standard:    "ESA 2024 01 - Annex II",
			Table:       "ict_services",
		},
		Columns: []string{
			"B_02.02.0010",
			"B_02.02.0020",
			"B_02.02.0030",
			"B_02.02.0040",
			"B_02.02.0050",
			"B_02.02.0060",
			"B_02.02.0070",
			"B_02.02.0080",
			"B_02.02.0090",
			"B_02.02.0100",
			"B_02.02.0110",
			"B_02.02.0120",
		},
		Mapping: map[string]roi.ColumnMapping{
			"B_02.02.0010": {Table: "contracts", Column: "reference_number", Type: roi.FieldText, Required: true},
			"B_02.02.0020": {Table: "vendors", Column: "lei", Type: roi.FieldLEI, Required: true},
			"B_02.02.0030": {Table: "vendors", Column: "name", Type: roi.FieldText},
			"B_02.02.0040": {Column: "service_type", Type: roi.FieldEnum, Enum: serviceType, Required: true},
			"B_02.02.0050": {Column: "function_identifier", Type: roi.FieldText},
			"B_02.02.0060": {Column: "criticality", Type: roi.FieldEnum, Enum: yesNo, Required: true},
			"B_02.02.0070": {Column: "stores_data", Type: roi.FieldEnum, Enum: yesNo},
			"B_02.02.0080": {Column: "data_sensitiveness", Type: roi.FieldEnum, Enum: sensitiveness},
			"B_02.02.0090": {Column: "reliance_percent", Type: roi.FieldPercent},
			"B_02.02.0100": {Column: "provision_country", Type: roi.FieldCountry},
			"B_02.02.0110": {Table: "contracts", Column: "start_date", Type: roi.FieldDate},
			"B_02.02.0120": {Column: "substitutability", Type: roi.FieldEnum, Enum: substitutability},
		},
		Joins: []roi.Join{
			{Table: "contracts", FK: "contract_id"},
			{Table: "vendors", FK: "vendor_id"},
		},
		Rules: []roi.RuleFunc{
			requiredWhenRule("B_02.02.0060", "yes", "B_02.02.0120",
				"critical services should document their substitutability assessment"),
			requiredWhenRule("B_02.02.0070", "yes", "B_02.02.0080",
				"services storing data should classify data sensitiveness"),
		},
		Defaults: func(org roi.OrgProfile, rec map[string]string) {
			setDefault(rec, "B_02.02.0100", org.Country)
		},
	})
}
