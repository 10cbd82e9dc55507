package roi

// validate.go runs per-template rule checks over fetched rows.
//
// Three rule classes, in order per row: required-field presence,
// enumerated-value membership, then the template's cross-field rules.
// Validation always operates on internal representations; external
// code translation happens only at export time.

import (
	"fmt"
	"strings"
)

// maxIssueDetail caps the error/warning detail lists returned for
// presentation. Full counts are always reported in the summary.
const maxIssueDetail = 10

// ValidateTemplate validates shaped rows against a template's column
// mappings and rules. Zero rows validate clean: nothing to violate.
func ValidateTemplate(templateID string, rows []Row) (ValidationResult, error) {
	def, ok := Get(templateID)
	if !ok {
		return ValidationResult{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}

	result := ValidationResult{
		Errors:   []Issue{},
		Warnings: []Issue{},
	}

	for idx, row := range rows {
		for _, code := range def.Columns {
			m := def.Mapping[code]
			value := strings.TrimSpace(row[code])

			if value == "" {
				if m.Required {
					result.addError(Issue{Row: idx, Column: code, Message: "required field is empty"})
				}
				continue
			}

			if m.Enum != nil {
				if !m.Enum.HasInternal(value) {
					result.addError(Issue{
						Row:     idx,
						Column:  code,
						Message: fmt.Sprintf("value %q must be one of: %s", value, strings.Join(m.Enum.Internals(), ", ")),
					})
				}
				continue
			}

			if err := CheckFormat(value, m.Type); err != nil {
				result.addError(Issue{Row: idx, Column: code, Message: err.Error()})
			}
		}

		for _, rule := range def.Rules {
			errs, warns := rule(idx, row)
			for _, e := range errs {
				result.addError(e)
			}
			for _, w := range warns {
				result.addWarning(w)
			}
		}
	}

	result.IsValid = result.ErrorCount == 0
	return result, nil
}

func (r *ValidationResult) addError(i Issue) {
	r.ErrorCount++
	if len(r.Errors) < maxIssueDetail {
		r.Errors = append(r.Errors, i)
	}
}

func (r *ValidationResult) addWarning(i Issue) {
	r.WarningCount++
	if len(r.Warnings) < maxIssueDetail {
		r.Warnings = append(r.Warnings, i)
	}
}
