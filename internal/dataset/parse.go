package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	percentValue  = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*%`)
)

// nullMarkers are cell values BLS uses for "no data".
var nullMarkers = map[string]bool{
	"":    true,
	"-":   true,
	"—":   true,
	"n/a": true,
	"na":  true,
	"*":   true,
	"**":  true,
	"#":   true,
	"nan": true,
}

func isNull(s string) bool {
	return nullMarkers[strings.ToLower(strings.TrimSpace(s))]
}

// parseSalary converts "$131,450" or "$239,200 or more" to 131450 / 239200.
// Returns nil for empty or unparseable values.
func parseSalary(s string) *float64 {
	if isNull(s) {
		return nil
	}
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(s)
	m := leadingNumber.FindString(cleaned)
	if m == "" {
		return nil
	}
	return finite(strconv.ParseFloat(m, 64))
}

// finite returns v unless parsing failed or v is NaN or ±Inf.
func finite(v float64, err error) *float64 {
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseJobs converts "1,897,100" or "1897100.0" to an integer job count.
func parseJobs(s string) *int64 {
	if isNull(s) {
		return nil
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if v, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return &v
	}
	f := finite(strconv.ParseFloat(cleaned, 64))
	if f == nil || *f < math.MinInt64 || *f >= math.MaxInt64 {
		return nil
	}
	v := int64(*f)
	return &v
}

// parseGrowth extracts the percentage from outlook strings like
// "15% (Much faster than average)" or "-3% (Decline)". A bare number is
// accepted as a percentage.
func parseGrowth(s string) *float64 {
	if isNull(s) {
		return nil
	}
	if m := percentValue.FindStringSubmatch(s); m != nil {
		return finite(strconv.ParseFloat(m[1], 64))
	}
	return finite(strconv.ParseFloat(strings.TrimSpace(s), 64))
}

// trimQuotes removes surrounding double quotes and whitespace from a field.
func trimQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// normalizeCol lowercases a header and folds spaces and dashes to underscores.
// "Occupation Name" → "occupation_name", "entry-level education" → "entry_level_education".
func normalizeCol(s string) string {
	s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// mapColumns builds a normalized column name → index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		key := normalizeCol(col)
		if _, exists := m[key]; !exists {
			m[key] = i
		}
	}
	return m
}

// getCol returns the value at idx, or "" when the row is short.
func getCol(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return trimQuotes(record[idx])
}
