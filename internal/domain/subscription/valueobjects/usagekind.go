package valueobjects

import "fmt"

// UsageKind is the category of a usage record.
type UsageKind string

const (
	UsageKindData    UsageKind = "data"
	UsageKindTime    UsageKind = "time"
	UsageKindFeature UsageKind = "feature"
)

// Unit labels recorded on usage records.
const (
	MetricBytes   = "bytes"
	MetricMinutes = "minutes"
)

// Common usage sources.
const (
	UsageSourcePanel  = "panel"
	UsageSourceAPI    = "api"
	UsageSourceManual = "manual"
)

func NewUsageKind(s string) (UsageKind, error) {
	k := UsageKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid usage kind: %s", s)
	}
	return k, nil
}

func (k UsageKind) String() string {
	return string(k)
}

func (k UsageKind) IsValid() bool {
	return k == UsageKindData || k == UsageKindTime || k == UsageKindFeature
}
