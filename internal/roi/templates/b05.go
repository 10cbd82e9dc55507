package templates

import "github.com/meridiangrc/roi/internal/roi"

func init() {
	registerB0501()
	registerB0502()
}

// B_05.01 - ICT third-party service providers.
func registerB0501() {
	roi.Register(roi.TemplateDefinition{
		Info: roi.TemplateInfo{
			ID:          "B_05.01",
			Name:        "ICT third-party service providers",
			Description: "Identification of ICT third-party service providers",
			Standard:    "ESA 2024 01 - Annex III",
			Table:       "vendors",
		},
		Columns: []string{
			"B_05.01.0010",
			"B_05.01.0020",
			"B_05.01.0030",
			"B_05.01.0040",
			"B_05.01.0050",
			"B_05.01.0060",
			"B_05.01.0070",
		},
		Mapping: map[string]roi.ColumnMapping{
			"B_05.01.0010": {Column: "id_code_type", Type: roi.FieldEnum, Enum: idCodeType},
			"B_05.01.0020": {Column: "lei", Type: roi.FieldLEI, Required: true},
			"B_05.01.0030": {Column: "name", Type: roi.FieldText, Required: true},
			"B_05.01.0040": {Column: "country", Type: roi.FieldCountry, Required: true},
			"B_05.01.0050": {Column: "person_type", Type: roi.FieldEnum, Enum: personType},
			"B_05.01.0060": {Column: "currency", Type: roi.FieldCurrency},
			"B_05.01.0070": {Column: "annual_expense", Type: roi.FieldNumeric},
		},
		Rules: []roi.RuleFunc{
			nonNegativeRule("B_05.01.0070"),
		},
		Defaults: func(org roi.OrgProfile, rec map[string]string) {
			setDefault(rec, "B_05.01.0040", org.Country)
			setDefault(rec, "B_05.01.0060", org.Currency)
		},
	})
}

// B_05.02 - ICT service supply chains. One row per subcontractor,
// linked to its direct provider.
func registerB0502() {
	roi.Register(roi.TemplateDefinition{
		Info: roi.TemplateInfo{
			ID:          "B_05.02",
			Name:        "ICT service supply chains",
			Description: "Subcontracting chains behind ICT third-party service providers",
			Standard:    "ESA 2024 01 - Annex III",
			Table:       "subcontractors",
		},
		Columns: []string{
			"B_05.02.0010",
			"B_05.02.0020",
			"B_05.02.0030",
			"B_05.02.0040",
			"B_05.02.0050",
		},
		Mapping: map[string]roi.ColumnMapping{
			"B_05.02.0010": {Table: "vendors", Column: "lei", Type: roi.FieldLEI, Required: true},
			"B_05.02.0020": {Column: "name", Type: roi.FieldText, Required: true},
			"B_05.02.0030": {Column: "rank", Type: roi.FieldInteger, Required: true},
			"B_05.02.0040": {Column: "country", Type: roi.FieldCountry},
			"B_05.02.0050": {Column: "service_type", Type: roi.FieldEnum, Enum: serviceType},
		},
		Joins: []roi.Join{
			{Table: "vendors", FK: "vendor_id"},
		},
		Rules: []roi.RuleFunc{
			minIntRule("B_05.02.0030", 2, "subcontractor rank starts at 2; rank 1 is the direct provider"),
		},
	})
}
