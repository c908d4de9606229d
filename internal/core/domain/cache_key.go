package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// ThemeFlags are the presentation flags that change how a chart is drawn.
type ThemeFlags struct {
	DarkMode     bool `json:"darkMode"     yaml:"darkMode"`
	HighContrast bool `json:"highContrast" yaml:"highContrast"`
	ReduceMotion bool `json:"reduceMotion" yaml:"reduceMotion"`
}

// CacheKey identifies one renderable appearance of a chart.
type CacheKey struct {
	SubjectID   string
	VariantTag  string
	Width       int
	Height      int
	Theme       ThemeFlags
	ContentHash string
}

// NewCacheKey builds a key for a chart, deriving the content hash from its semantic values.
func NewCacheKey(subjectID, variantTag string, width, height int, theme ThemeFlags, content ContentInput) CacheKey {
	return CacheKey{
		SubjectID:   subjectID,
		VariantTag:  variantTag,
		Width:       width,
		Height:      height,
		Theme:       theme,
		ContentHash: ContentHash(content),
	}
}

// ID returns the composite store id of the key.
// The subject id leads so entries of one subject share a prefix.
func (k CacheKey) ID() string {
	var b strings.Builder
	b.WriteString(k.SubjectID)
	b.WriteByte('|')
	b.WriteString(k.VariantTag)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(k.Width))
	b.WriteByte('x')
	b.WriteString(strconv.Itoa(k.Height))
	b.WriteByte('|')
	b.WriteString(k.Theme.code())
	b.WriteByte('|')
	b.WriteString(k.ContentHash)
	return b.String()
}

// Validate reports whether the key carries everything needed to address a snapshot.
func (k CacheKey) Validate() error {
	switch {
	case strings.TrimSpace(k.SubjectID) == "":
		return zerr.With(ErrInvalidCacheKey, "field", "subjectId")
	case strings.ContainsRune(k.SubjectID, '|'):
		return zerr.With(ErrInvalidCacheKey, "subjectId", k.SubjectID)
	case strings.ContainsRune(k.VariantTag, '|'):
		return zerr.With(ErrInvalidCacheKey, "variantTag", k.VariantTag)
	case k.Width <= 0 || k.Height <= 0:
		return zerr.With(zerr.With(ErrInvalidCacheKey, "width", k.Width), "height", k.Height)
	}
	return nil
}

func (t ThemeFlags) code() string {
	b := []byte{'l', 'n', 'n'}
	if t.DarkMode {
		b[0] = 'd'
	}
	if t.HighContrast {
		b[1] = 'h'
	}
	if t.ReduceMotion {
		b[2] = 'r'
	}
	return string(b)
}
