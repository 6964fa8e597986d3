package subscription

import (
	"encoding/json"
	"maps"
	"math"
	"strings"

	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
)

// Well-known feature names.
const (
	FeatureMaxDevices      = "max_devices"
	FeaturePrioritySupport = "priority_support"
)

// Feature is a named entitlement attached to a subscription. A numeric
// feature never holds a value above its limit.
type Feature struct {
	name        string
	description string
	kind        vo.FeatureKind
	value       any
	limit       *int64
	enabled     bool
}

// NewFeature builds an enabled feature after checking value against kind.
func NewFeature(name, description string, kind vo.FeatureKind, value any, limit *int64) (*Feature, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errValidation("feature name", "is required")
	}
	if !kind.IsValid() {
		return nil, errValidation("feature kind", "is invalid: "+kind.String())
	}

	normalized, err := normalizeFeatureValue(kind, value)
	if err != nil {
		return nil, err
	}

	f := &Feature{
		name:        name,
		description: description,
		kind:        kind,
		value:       normalized,
		enabled:     true,
	}
	if limit != nil {
		if err := f.checkLimit(*limit); err != nil {
			return nil, err
		}
		l := *limit
		f.limit = &l
	}
	if kind.IsNumeric() && f.limit != nil && normalized.(int64) > *f.limit {
		return nil, &LimitExceededError{Feature: name, Current: 0, Requested: normalized.(int64), Limit: *f.limit}
	}

	return f, nil
}

// NewBooleanFeature is a shorthand for an enabled boolean feature.
func NewBooleanFeature(name string, value bool) (*Feature, error) {
	return NewFeature(name, "", vo.FeatureKindBoolean, value, nil)
}

// NewNumericFeature is a shorthand for a numeric feature with an optional ceiling.
func NewNumericFeature(name string, value int64, limit *int64) (*Feature, error) {
	return NewFeature(name, "", vo.FeatureKindNumeric, value, limit)
}

// ReconstructFeature restores a feature from persistence, re-checking its invariants.
func ReconstructFeature(name, description string, kind vo.FeatureKind, value any, limit *int64, enabled bool) (*Feature, error) {
	f, err := NewFeature(name, description, kind, value, limit)
	if err != nil {
		return nil, err
	}
	f.enabled = enabled
	return f, nil
}

func (f *Feature) Name() string {
	return f.name
}

func (f *Feature) Description() string {
	return f.description
}

func (f *Feature) Kind() vo.FeatureKind {
	return f.kind
}

// Value returns the typed value; structured values are copied.
func (f *Feature) Value() any {
	if m, ok := f.value.(map[string]any); ok {
		return maps.Clone(m)
	}
	return f.value
}

func (f *Feature) Limit() *int64 {
	if f.limit == nil {
		return nil
	}
	l := *f.limit
	return &l
}

func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// NumericValue returns the value of a numeric feature.
func (f *Feature) NumericValue() (int64, bool) {
	n, ok := f.value.(int64)
	return n, ok && f.kind.IsNumeric()
}

// BoolValue returns the value of a boolean feature.
func (f *Feature) BoolValue() (bool, bool) {
	b, ok := f.value.(bool)
	return b, ok
}

// TextValue returns the value of a text feature.
func (f *Feature) TextValue() (string, bool) {
	s, ok := f.value.(string)
	return s, ok && f.kind == vo.FeatureKindText
}

// Remaining returns limit minus value for a capped numeric feature.
func (f *Feature) Remaining() (int64, bool) {
	n, ok := f.NumericValue()
	if !ok || f.limit == nil {
		return 0, false
	}
	return max(*f.limit-n, 0), true
}

// UpdateValue replaces the value after revalidating it against the kind.
func (f *Feature) UpdateValue(value any) error {
	normalized, err := normalizeFeatureValue(f.kind, value)
	if err != nil {
		return err
	}
	if f.kind.IsNumeric() && f.limit != nil && normalized.(int64) > *f.limit {
		current, _ := f.NumericValue()
		return &LimitExceededError{Feature: f.name, Current: current, Requested: normalized.(int64), Limit: *f.limit}
	}
	f.value = normalized
	return nil
}

// UpdateLimit sets or clears (nil) the ceiling of a numeric feature. A limit
// below the current value is rejected.
func (f *Feature) UpdateLimit(limit *int64) error {
	if !f.kind.IsNumeric() {
		return errValidation("feature limit", "is only supported for numeric features")
	}
	if limit == nil {
		f.limit = nil
		return nil
	}
	if err := f.checkLimit(*limit); err != nil {
		return err
	}
	current, _ := f.NumericValue()
	if *limit < current {
		return errValidation("feature limit", "cannot be lower than the current value")
	}
	l := *limit
	f.limit = &l
	return nil
}

func (f *Feature) Enable() {
	f.enabled = true
}

func (f *Feature) Disable() {
	f.enabled = false
}

// Increment adds amount to a numeric feature. If the result would exceed the
// limit the value is left unchanged and a LimitExceededError is returned.
func (f *Feature) Increment(amount int64) error {
	current, err := f.numericForMutation(amount)
	if err != nil {
		return err
	}
	if amount > math.MaxInt64-current {
		return errValidation("amount", "overflows the feature value")
	}
	next := current + amount
	if f.limit != nil && next > *f.limit {
		return &LimitExceededError{Feature: f.name, Current: current, Requested: next, Limit: *f.limit}
	}
	f.value = next
	return nil
}

// Decrement subtracts amount from a numeric feature, flooring at zero.
func (f *Feature) Decrement(amount int64) error {
	current, err := f.numericForMutation(amount)
	if err != nil {
		return err
	}
	f.value = max(current-amount, 0)
	return nil
}

// Reset sets a numeric feature back to zero.
func (f *Feature) Reset() error {
	if !f.kind.IsNumeric() {
		return errValidation("feature", f.name+" is not numeric")
	}
	f.value = int64(0)
	return nil
}

func (f *Feature) numericForMutation(amount int64) (int64, error) {
	current, ok := f.NumericValue()
	if !ok {
		return 0, errValidation("feature", f.name+" is not numeric")
	}
	if amount < 0 {
		return 0, errValidation("amount", "must not be negative")
	}
	return current, nil
}

func (f *Feature) checkLimit(limit int64) error {
	if !f.kind.IsNumeric() {
		return errValidation("feature limit", "is only supported for numeric features")
	}
	if limit < 0 {
		return errValidation("feature limit", "must not be negative")
	}
	return nil
}

func (f *Feature) clone() *Feature {
	c := *f
	c.value = f.Value()
	c.limit = f.Limit()
	return &c
}

func normalizeFeatureValue(kind vo.FeatureKind, value any) (any, error) {
	switch kind {
	case vo.FeatureKindBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, errValidation("feature value", "must be a boolean")
		}
		return b, nil
	case vo.FeatureKindNumeric:
		return toNonNegativeInt64(value)
	case vo.FeatureKindText:
		s, ok := value.(string)
		if !ok {
			return nil, errValidation("feature value", "must be a string")
		}
		return s, nil
	case vo.FeatureKindStructured:
		switch m := value.(type) {
		case map[string]any:
			if m == nil {
				return map[string]any{}, nil
			}
			return maps.Clone(m), nil
		case map[string]string:
			out := make(map[string]any, len(m))
			for k, v := range m {
				out[k] = v
			}
			return out, nil
		}
		return nil, errValidation("feature value", "must be a map")
	}
	return nil, errValidation("feature kind", "is invalid: "+kind.String())
}

// toNonNegativeInt64 accepts the integer shapes produced by Go callers and by
// JSON decoding.
func toNonNegativeInt64(value any) (int64, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, errValidation("feature value", "is too large")
		}
		n = int64(v)
	case uint32:
		n = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return 0, errValidation("feature value", "is too large")
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) || v >= math.MaxInt64 {
			return 0, errValidation("feature value", "must be an integer")
		}
		n = int64(v)
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0, errValidation("feature value", "must be an integer")
		}
		n = parsed
	default:
		return 0, errValidation("feature value", "must be a non-negative integer")
	}
	if n < 0 {
		return 0, errValidation("feature value", "must be a non-negative integer")
	}
	return n, nil
}
