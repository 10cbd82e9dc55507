package templates

import (
	"fmt"

	"github.com/meridiangrc/roi/internal/roi"
	"github.com/shopspring/decimal"
)

// dateOrderRule errors when the column holding the later date is
// chronologically before the earlier one. Unparseable or empty values
// are left to the format checks.
func dateOrderRule(earlierCol, laterCol string) roi.RuleFunc {
	return func(idx int, row roi.Row) (errs, warns []roi.Issue) {
		start, err1 := roi.ParseDate(row[earlierCol])
		end, err2 := roi.ParseDate(row[laterCol])
		if err1 != nil || err2 != nil {
			return nil, nil
		}
		if end.Before(start) {
			errs = append(errs, roi.Issue{
				Row:     idx,
				Column:  laterCol,
				Message: fmt.Sprintf("%s is before %s", laterCol, earlierCol),
			})
		}
		return errs, warns
	}
}

// nonNegativeRule errors on negative numeric values.
func nonNegativeRule(col string) roi.RuleFunc {
	return func(idx int, row roi.Row) (errs, warns []roi.Issue) {
		v := row[col]
		if v == "" {
			return nil, nil
		}
		d, err := roi.ParseDecimal(v)
		if err != nil {
			return nil, nil
		}
		if d.LessThan(decimal.Zero) {
			errs = append(errs, roi.Issue{
				Row:     idx,
				Column:  col,
				Message: "value must not be negative",
			})
		}
		return errs, warns
	}
}

// requiredWhenRule warns when depCol is empty while condCol holds
// condValue.
func requiredWhenRule(condCol, condValue, depCol, message string) roi.RuleFunc {
	return func(idx int, row roi.Row) (errs, warns []roi.Issue) {
		if row[condCol] == condValue && row[depCol] == "" {
			warns = append(warns, roi.Issue{Row: idx, Column: depCol, Message: message})
		}
		return errs, warns
	}
}

// minIntRule errors when an integer column is below min.
func minIntRule(col string, min int64, message string) roi.RuleFunc {
	return func(idx int, row roi.Row) (errs, warns []roi.Issue) {
		v := row[col]
		if v == "" {
			return nil, nil
		}
		d, err := roi.ParseDecimal(v)
		if err != nil {
			return nil, nil
		}
		if d.LessThan(decimal.NewFromInt(min)) {
			errs = append(errs, roi.Issue{Row: idx, Column: col, Message: message})
		}
		return errs, warns
	}
}
