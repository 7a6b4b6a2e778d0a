package reportparse

import (
	"strconv"
	"strings"
)

// cell reads a column defensively: short rows from merged cells are common
// in these exports and read as empty.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// cellFloat coerces a numeric cell to float64, always 0.0 on non-numeric
// content. Raising here would abort whole reports over one merged cell.
func cellFloat(row []string, col int) float64 {
	s := cell(row, col)
	if s == "" {
		return 0
	}
	s = strings.NewReplacer("$", "", ",", "", "%", "").Replace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
