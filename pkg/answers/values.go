package answers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/woodsbury/decimal128"
)

// DateLayouts lists the accepted textual date formats, ISO first.
var DateLayouts = []string{"2006-01-02", "02.01.2006", time.RFC3339}

const (
	Yes = "yes"
	No  = "no"
)

// String returns the trimmed string stored under key.
func (s Store) String(key string) (string, bool) {
	value, ok := s.Lookup(key)
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	case []byte:
		return strings.TrimSpace(string(v)), true
	case fmt.Stringer:
		return strings.TrimSpace(v.String()), true
	default:
		return "", false
	}
}

// Equals reports whether the string stored under key equals want.
func (s Store) Equals(key, want string) bool {
	got, ok := s.String(key)
	return ok && got == want
}

// IsYes reports whether key holds the "yes" answer of a yes/no question.
func (s Store) IsYes(key string) bool {
	return s.Equals(key, Yes)
}

// IsNo reports whether key holds the "no" answer of a yes/no question.
func (s Store) IsNo(key string) bool {
	return s.Equals(key, No)
}

// Bool reads a checkbox style value. HTML forms post "on" for checked boxes.
func (s Store) Bool(key string) (bool, bool) {
	value, ok := s.Lookup(key)
	if !ok {
		return false, false
	}
	return ParseBool(value)
}

// Checked reports whether key holds a true boolean.
func (s Store) Checked(key string) bool {
	v, ok := s.Bool(key)
	return ok && v
}

// Date reads a calendar date. Times are truncated to the date in UTC.
func (s Store) Date(key string) (time.Time, bool) {
	value, ok := s.Lookup(key)
	if !ok {
		return time.Time{}, false
	}
	return ParseDate(value)
}

// Decimal reads a monetary amount.
func (s Store) Decimal(key string) (decimal128.Decimal, bool) {
	value, ok := s.Lookup(key)
	if !ok {
		return decimal128.Decimal{}, false
	}
	return ParseDecimal(value)
}

// Int reads an integer count.
func (s Store) Int(key string) (int, bool) {
	value, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Entries reads a list of free text entries.
func (s Store) Entries(key string) ([]string, bool) {
	value, ok := s.Lookup(key)
	if !ok {
		return nil, false
	}
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, true
		}
		return []string{v}, true
	default:
		return nil, false
	}
}

// ParseBool interprets common checkbox and boolean spellings.
func ParseBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on", "y", "yes", "true", "1", "checked":
			return true, true
		case "", "off", "n", "no", "false", "0":
			return false, true
		}
		return false, false
	case int:
		return v != 0, true
	case float64:
		return v != 0, true
	default:
		return false, false
	}
}

// ParseDate interprets time values and the formats in DateLayouts.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return truncateDate(v), true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return truncateDate(*v), true
	case string:
		raw := strings.TrimSpace(v)
		if raw == "" {
			return time.Time{}, false
		}
		for _, layout := range DateLayouts {
			parsed, err := time.Parse(layout, raw)
			if err == nil {
				return truncateDate(parsed), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// ParseDecimal interprets numbers and decimal strings. German formatting
// ("1.234,56") is accepted alongside plain ones ("1234.56").
func ParseDecimal(value any) (decimal128.Decimal, bool) {
	switch v := value.(type) {
	case decimal128.Decimal:
		return v, true
	case int:
		return parseDecimalString(strconv.Itoa(v))
	case int64:
		return parseDecimalString(strconv.FormatInt(v, 10))
	case float64:
		return parseDecimalString(strconv.FormatFloat(v, 'f', -1, 64))
	case string:
		raw := strings.TrimSpace(v)
		raw = strings.TrimSuffix(raw, "€")
		raw = strings.TrimSpace(raw)
		if strings.Contains(raw, ",") {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.ReplaceAll(raw, ",", ".")
		}
		return parseDecimalString(raw)
	default:
		return decimal128.Decimal{}, false
	}
}

// FormatDate renders a date the way German forms display it.
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

func parseDecimalString(raw string) (decimal128.Decimal, bool) {
	if raw == "" {
		return decimal128.Decimal{}, false
	}
	d, err := decimal128.Parse(raw)
	if err != nil {
		return decimal128.Decimal{}, false
	}
	return d, true
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
