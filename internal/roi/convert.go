package roi

// convert.go handles the string <-> typed boundary.
//
// The engine circulates cell values as strings in their internal
// representation. These helpers validate formats during validation and
// produce pgtype values for writes, so NULLs reach the database as
// NULLs rather than empty strings.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// dateLayouts are the accepted input layouts for date cells.
// The canonical internal form is the first entry.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"01/02/2006",
	"2 Jan 2006",
}

// ParseDate parses a date cell in any accepted layout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
}

// ParseDecimal parses a numeric cell, tolerating thousands separators.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid number %q", s)
	}
	return d, nil
}

// leiCharValue maps an LEI character to its ISO 7064 numeric value.
func leiCharValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// ValidLEI reports whether s is a structurally valid LEI: 20 characters
// of [A-Z0-9] whose ISO 7064 mod-97-10 checksum equals 1.
func ValidLEI(s string) bool {
	if len(s) != 20 {
		return false
	}
	rem := 0
	for i := 0; i < len(s); i++ {
		v, ok := leiCharValue(s[i])
		if !ok {
			return false
		}
		if v < 10 {
			rem = (rem*10 + v) % 97
		} else {
			rem = (rem*100 + v) % 97
		}
	}
	return rem == 1
}

// ValidCountry reports whether s looks like an ISO 3166-1 alpha-2 code.
func ValidCountry(s string) bool {
	if len(s) != 2 {
		return false
	}
	return s[0] >= 'A' && s[0] <= 'Z' && s[1] >= 'A' && s[1] <= 'Z'
}

// ValidCurrency reports whether s looks like an ISO 4217 alpha-3 code.
func ValidCurrency(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// CheckFormat validates a non-empty internal value against a field
// type. Enum membership is checked separately against the mapping's
// enumeration dictionary.
func CheckFormat(value string, ft FieldType) error {
	switch ft {
	case FieldDate:
		_, err := ParseDate(value)
		return err
	case FieldNumeric:
		_, err := ParseDecimal(value)
		return err
	case FieldPercent:
		d, err := ParseDecimal(value)
		if err != nil {
			return err
		}
		if d.LessThan(decimal.Zero) || d.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("percentage %s out of range 0-100", d)
		}
		return nil
	case FieldInteger:
		if _, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		return nil
	case FieldBool:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "false", "yes", "no", "1", "0":
			return nil
		}
		return fmt.Errorf("invalid boolean %q", value)
	case FieldCountry:
		if !ValidCountry(value) {
			return fmt.Errorf("invalid country code %q (use ISO 3166-1 alpha-2)", value)
		}
		return nil
	case FieldCurrency:
		if !ValidCurrency(value) {
			return fmt.Errorf("invalid currency code %q (use ISO 4217)", value)
		}
		return nil
	case FieldLEI:
		if !ValidLEI(value) {
			return fmt.Errorf("invalid LEI %q", value)
		}
		return nil
	default:
		return nil
	}
}

// ToDBValue converts an internal string value to the typed value bound
// on writes. Empty strings become NULL through invalid pgtype values.
func ToDBValue(value string, ft FieldType) (interface{}, error) {
	value = strings.TrimSpace(value)
	switch ft {
	case FieldDate:
		if value == "" {
			return pgtype.Date{}, nil
		}
		t, err := ParseDate(value)
		if err != nil {
			return nil, err
		}
		return pgtype.Date{Time: t, Valid: true}, nil
	case FieldNumeric, FieldPercent:
		if value == "" {
			return pgtype.Numeric{}, nil
		}
		d, err := ParseDecimal(value)
		if err != nil {
			return nil, err
		}
		var n pgtype.Numeric
		if err := n.Scan(d.String()); err != nil {
			return nil, fmt.Errorf("invalid number %q", value)
		}
		return n, nil
	case FieldInteger:
		if value == "" {
			return pgtype.Int8{}, nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", value)
		}
		return pgtype.Int8{Int64: i, Valid: true}, nil
	case FieldBool:
		if value == "" {
			return pgtype.Bool{}, nil
		}
		switch strings.ToLower(value) {
		case "true", "yes", "1":
			return pgtype.Bool{Bool: true, Valid: true}, nil
		case "false", "no", "0":
			return pgtype.Bool{Bool: false, Valid: true}, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", value)
	default:
		if value == "" {
			return pgtype.Text{}, nil
		}
		return pgtype.Text{String: value, Valid: true}, nil
	}
}

// FormatDBValue renders a scanned database value back into the
// internal string representation.
func FormatDBValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case float64:
		return decimal.NewFromFloat(val).String()
	case time.Time:
		return val.Format("2006-01-02")
	case pgtype.Numeric:
		if !val.Valid {
			return ""
		}
		d, err := numericToDecimal(val)
		if err != nil {
			return ""
		}
		return d.String()
	case [16]byte:
		return formatUUIDBytes(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if n.NaN || n.Int == nil {
		return decimal.Decimal{}, fmt.Errorf("not a number")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

func formatUUIDBytes(b [16]byte) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
