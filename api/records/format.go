package records

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"consolidate/internal/store"
)

const displayDateLayout = "2006-01-02"

// formatRecord returns a display copy of the record: dates pushed through
// the canonical layout and money fields rendered with thousands separators
// and two decimals. Values that do not parse pass through unchanged; storage
// is never touched.
func formatRecord(r store.Record) store.Record {
	r.RegistrationDate = formatDate(r.RegistrationDate)
	r.DateOfExecution = formatDate(r.DateOfExecution)
	r.UploadDate = formatDate(r.UploadDate)

	r.ConsiderationAmt = formatCurrency(r.ConsiderationAmt)
	r.MarketValue = formatCurrency(r.MarketValue)
	r.StampDutyPaid = formatCurrency(r.StampDutyPaid)
	r.RegistrationFees = formatCurrency(r.RegistrationFees)
	return r
}

func formatDate(s string) string {
	t, err := time.Parse(displayDateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(displayDateLayout)
}

func formatCurrency(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return groupThousands(d.StringFixed(2))
}

// groupThousands inserts comma separators into the integer part of a fixed
// two-decimal string such as "-1234567.80".
func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + "." + fracPart
}
