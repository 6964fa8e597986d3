package valueobjects

import "fmt"

// FeatureKind describes how a feature value is typed.
type FeatureKind string

const (
	FeatureKindBoolean    FeatureKind = "boolean"
	FeatureKindNumeric    FeatureKind = "numeric"
	FeatureKindText       FeatureKind = "text"
	FeatureKindStructured FeatureKind = "structured"
)

func NewFeatureKind(s string) (FeatureKind, error) {
	k := FeatureKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid feature kind: %s", s)
	}
	return k, nil
}

func (k FeatureKind) String() string {
	return string(k)
}

func (k FeatureKind) IsValid() bool {
	switch k {
	case FeatureKindBoolean, FeatureKindNumeric, FeatureKindText, FeatureKindStructured:
		return true
	}
	return false
}

func (k FeatureKind) IsNumeric() bool {
	return k == FeatureKindNumeric
}
