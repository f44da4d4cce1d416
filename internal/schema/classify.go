package schema

import "strings"

// TypeClass is the closed classification of a declared column type.
// It decides which worked example the prompt synthesizer emits.
type TypeClass int

const (
	ClassNumeric TypeClass = iota
	ClassText
	ClassOther
)

func (c TypeClass) String() string {
	switch c {
	case ClassNumeric:
		return "numeric"
	case ClassText:
		return "text"
	default:
		return "other"
	}
}

// numericMarkers and textMarkers are checked in order; the numeric family
// always wins over the text family, and both win over the fallback. This
// precedence is part of the prompt contract, not an accident of matching.
var (
	numericMarkers = []string{"int", "number", "float"}
	textMarkers    = []string{"char", "text", "varchar"}
)

// Classify maps a declared column type to its TypeClass. Matching is
// case-insensitive and substring-based because engines store free-form
// declared types ("VARCHAR(50)", "UNSIGNED BIG INT", …).
func Classify(declaredType string) TypeClass {
	t := strings.ToLower(declaredType)
	for _, m := range numericMarkers {
		if strings.Contains(t, m) {
			return ClassNumeric
		}
	}
	for _, m := range textMarkers {
		if strings.Contains(t, m) {
			return ClassText
		}
	}
	return ClassOther
}
