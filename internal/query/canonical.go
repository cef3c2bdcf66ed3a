package query

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/plangraph/internal/selection"
)

// Canonicalization keeps diagnostics output byte-stable: field names and
// string values that arrive in different Unicode composition forms (NFC vs
// NFD, common when fixtures are edited on macOS) must render identically in
// golden files.

// NormalizeString returns s in NFC form.
func NormalizeString(s string) string {
	return norm.NFC.String(s)
}

// NormalizeSelection returns sel with every field name NFC-normalized.
func NormalizeSelection(sel selection.Selection) selection.Selection {
	fields := sel.Fields()
	for i, f := range fields {
		fields[i] = norm.NFC.String(f)
	}
	return selection.New(fields...)
}

// NormalizeRow returns a copy of r with NFC-normalized field names and
// string values. Non-string values pass through untouched.
func NormalizeRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		if s, ok := v.(string); ok {
			v = norm.NFC.String(s)
		}
		out[norm.NFC.String(k)] = v
	}
	return out
}

// NormalizeRows normalizes every row in rows.
func NormalizeRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = NormalizeRow(r)
	}
	return out
}
