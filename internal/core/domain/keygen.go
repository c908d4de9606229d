package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Estimate is one plotted value: a mean and its confidence interval bounds.
type Estimate struct {
	Mean  float64 `json:"mean"  yaml:"mean"`
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

// ContentInput holds the semantic values of a chart that affect its pixels.
// Anything not listed here must not influence the content hash.
type ContentInput struct {
	// Estimates maps a series label to its plotted estimate.
	Estimates map[string]Estimate `json:"estimates" yaml:"estimates"`
	// ConfidenceLevel is the level the intervals were computed at, e.g. 0.95.
	ConfidenceLevel float64 `json:"confidenceLevel" yaml:"confidenceLevel"`
}

// Normalize serializes the semantic subset of the input into a canonical string.
// Labels are emitted in sorted order so map iteration order never leaks into the result.
func Normalize(in ContentInput) string {
	labels := make([]string, 0, len(in.Estimates))
	for label := range in.Estimates {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var b strings.Builder
	b.WriteString("cl=")
	b.WriteString(formatFloat(in.ConfidenceLevel))
	b.WriteByte(';')

	for _, label := range labels {
		est := in.Estimates[label]
		b.WriteString(strconv.Quote(label))
		b.WriteByte('=')
		b.WriteString(formatFloat(est.Mean))
		b.WriteByte(',')
		b.WriteString(formatFloat(est.Lower))
		b.WriteByte(',')
		b.WriteString(formatFloat(est.Upper))
		b.WriteByte(';')
	}

	return b.String()
}

// formatFloat renders v in its shortest round-trip form, folding -0 into 0.
func formatFloat(v float64) string {
	if v == 0 {
		v = 0
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// RollingHash computes the 32-bit polynomial rolling hash (h = h*31 + c) of s over
// UTF-16 code units and returns its magnitude encoded in base 36.
//
// The hash is not collision resistant. Two distinct inputs hashing to the same value
// would share a cached snapshot.
func RollingHash(s string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}

// ContentHash derives the content hash for a chart from its semantic values.
func ContentHash(in ContentInput) string {
	return RollingHash(Normalize(in))
}
