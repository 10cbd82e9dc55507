package roi

import (
	"errors"
	"testing"
)

func TestValidateTemplateCleanRows(t *testing.T) {
	id := testTemplate(t)

	rows := []Row{
		{"T_01.01.0010": "CTR-001", "T_01.01.0020": "active", "T_01.01.0030": "2025-01-01", "T_01.01.0040": "1000.50"},
		{"T_01.01.0010": "CTR-002", "T_01.01.0020": "terminated"},
	}

	result, err := ValidateTemplate(id, rows)
	if err != nil {
		t.Fatalf("ValidateTemplate() error = %v", err)
	}
	if !result.IsValid {
		t.Errorf("IsValid = false, errors: %v", result.Errors)
	}
	if result.ErrorCount != 0 || result.WarningCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", result.ErrorCount, result.WarningCount)
	}
}

func TestValidateTemplateZeroRows(t *testing.T) {
	id := testTemplate(t)

	result, err := ValidateTemplate(id, nil)
	if err != nil {
		t.Fatalf("ValidateTemplate() error = %v", err)
	}
	if !result.IsValid {
		t.Error("zero rows should validate clean")
	}
	if result.Errors == nil || result.Warnings == nil {
		t.Error("detail slices should be empty, not nil")
	}
}

func TestValidateTemplateFindings(t *testing.T) {
	id := testTemplate(t)

	rows := []Row{
		{
			// 0010 missing (required), 0020 not in enum, 0030 malformed
			"T_01.01.0020": "bogus",
			"T_01.01.0030": "13/13/2025",
		},
	}

	result, err := ValidateTemplate(id, rows)
	if err != nil {
		t.Fatalf("ValidateTemplate() error = %v", err)
	}
	if result.IsValid {
		t.Fatal("IsValid = true, want false")
	}
	if result.ErrorCount != 3 {
		t.Fatalf("ErrorCount = %d, want 3, errors: %v", result.ErrorCount, result.Errors)
	}

	byColumn := make(map[string]Issue)
	for _, e := range result.Errors {
		byColumn[e.Column] = e
	}
	if _, ok := byColumn["T_01.01.0010"]; !ok {
		t.Error("missing required-field finding for 0010")
	}
	if _, ok := byColumn["T_01.01.0020"]; !ok {
		t.Error("missing enum-membership finding for 0020")
	}
	if _, ok := byColumn["T_01.01.0030"]; !ok {
		t.Error("missing date-format finding for 0030")
	}
	for _, e := range result.Errors {
		if e.Row != 0 {
			t.Errorf("finding addressed to row %d, want 0", e.Row)
		}
	}
}

func TestValidateTemplateRules(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	Register(TemplateDefinition{
		Info:    TemplateInfo{ID: "T_04.01", Table: "contracts"},
		Columns: []string{"T_04.01.0010"},
		Mapping: map[string]ColumnMapping{
			"T_04.01.0010": {Column: "reference_number", Type: FieldText},
		},
		Rules: []RuleFunc{
			func(idx int, row Row) ([]Issue, []Issue) {
				if row["T_04.01.0010"] == "bad" {
					return []Issue{{Row: idx, Column: "T_04.01.0010", Message: "bad reference"}},
						[]Issue{{Row: idx, Column: "T_04.01.0010", Message: "suspicious reference"}}
				}
				return nil, nil
			},
		},
	})

	result, err := ValidateTemplate("T_04.01", []Row{{"T_04.01.0010": "bad"}})
	if err != nil {
		t.Fatalf("ValidateTemplate() error = %v", err)
	}
	if result.ErrorCount != 1 || result.WarningCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", result.ErrorCount, result.WarningCount)
	}
}

func TestValidateTemplateDetailCap(t *testing.T) {
	id := testTemplate(t)

	// Every row misses both required fields: 2 errors per row
	rows := make([]Row, 20)
	for i := range rows {
		rows[i] = Row{}
	}

	result, err := ValidateTemplate(id, rows)
	if err != nil {
		t.Fatalf("ValidateTemplate() error = %v", err)
	}
	if result.ErrorCount != 40 {
		t.Errorf("ErrorCount = %d, want 40", result.ErrorCount)
	}
	if len(result.Errors) != maxIssueDetail {
		t.Errorf("len(Errors) = %d, want %d", len(result.Errors), maxIssueDetail)
	}
}

func TestValidateTemplateUnknownTemplate(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	_, err := ValidateTemplate("B_XX.99", nil)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("error = %v, want ErrTemplateNotFound", err)
	}
}
