package subscription

import (
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
)

// UsageRecord is one immutable metered-consumption entry.
type UsageRecord struct {
	id             string
	subscriptionID string
	kind           vo.UsageKind
	metric         string
	amount         int64
	source         string
	sourceID       string
	metadata       map[string]any
	recordedAt     time.Time
	createdAt      time.Time
}

type usageOptions struct {
	sourceID   string
	recordedAt time.Time
	metadata   map[string]any
}

// UsageOption customises a usage record at creation.
type UsageOption func(*usageOptions)

// WithSourceID sets the origin-specific identifier, e.g. a panel node id.
func WithSourceID(sourceID string) UsageOption {
	return func(o *usageOptions) {
		o.sourceID = sourceID
	}
}

// WithRecordedAt sets when the usage happened. Defaults to now.
func WithRecordedAt(at time.Time) UsageOption {
	return func(o *usageOptions) {
		o.recordedAt = at
	}
}

func WithUsageMetadata(metadata map[string]any) UsageOption {
	return func(o *usageOptions) {
		o.metadata = maps.Clone(metadata)
	}
}

// NewDataUsageRecord creates a record of bytes transferred.
func NewDataUsageRecord(subscriptionID string, bytes int64, source string, now time.Time, opts ...UsageOption) (*UsageRecord, error) {
	return newUsageRecord(subscriptionID, vo.UsageKindData, vo.MetricBytes, bytes, source, now, opts)
}

// NewTimeUsageRecord creates a record of connected minutes.
func NewTimeUsageRecord(subscriptionID string, minutes int64, source string, now time.Time, opts ...UsageOption) (*UsageRecord, error) {
	return newUsageRecord(subscriptionID, vo.UsageKindTime, vo.MetricMinutes, minutes, source, now, opts)
}

// NewFeatureUsageRecord creates a record of count uses of a named feature.
// The feature name is the record's metric.
func NewFeatureUsageRecord(subscriptionID, featureName string, count int64, source string, now time.Time, opts ...UsageOption) (*UsageRecord, error) {
	featureName = strings.TrimSpace(featureName)
	if featureName == "" {
		return nil, errValidation("feature name", "is required")
	}
	return newUsageRecord(subscriptionID, vo.UsageKindFeature, featureName, count, source, now, opts)
}

func newUsageRecord(subscriptionID string, kind vo.UsageKind, metric string, amount int64, source string, now time.Time, opts []UsageOption) (*UsageRecord, error) {
	if subscriptionID == "" {
		return nil, errValidation("subscription ID", "is required")
	}
	if amount < 0 {
		return nil, errValidation("amount", "must not be negative")
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errValidation("source", "is required")
	}

	o := usageOptions{recordedAt: now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.recordedAt.IsZero() {
		o.recordedAt = now
	}
	if o.metadata == nil {
		o.metadata = make(map[string]any)
	}

	return &UsageRecord{
		id:             uuid.NewString(),
		subscriptionID: subscriptionID,
		kind:           kind,
		metric:         metric,
		amount:         amount,
		source:         source,
		sourceID:       o.sourceID,
		metadata:       o.metadata,
		recordedAt:     o.recordedAt,
		createdAt:      now,
	}, nil
}

// ReconstructUsageRecord restores a record from persistence.
func ReconstructUsageRecord(
	id, subscriptionID string,
	kind vo.UsageKind,
	metric string,
	amount int64,
	source, sourceID string,
	metadata map[string]any,
	recordedAt, createdAt time.Time,
) (*UsageRecord, error) {
	if id == "" {
		return nil, errValidation("usage record ID", "is required")
	}
	if !kind.IsValid() {
		return nil, errValidation("usage kind", "is invalid: "+kind.String())
	}
	if amount < 0 {
		return nil, errValidation("amount", "must not be negative")
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &UsageRecord{
		id:             id,
		subscriptionID: subscriptionID,
		kind:           kind,
		metric:         metric,
		amount:         amount,
		source:         source,
		sourceID:       sourceID,
		metadata:       metadata,
		recordedAt:     recordedAt,
		createdAt:      createdAt,
	}, nil
}

func (r *UsageRecord) ID() string {
	return r.id
}

func (r *UsageRecord) SubscriptionID() string {
	return r.subscriptionID
}

func (r *UsageRecord) Kind() vo.UsageKind {
	return r.kind
}

func (r *UsageRecord) Metric() string {
	return r.metric
}

func (r *UsageRecord) Amount() int64 {
	return r.amount
}

func (r *UsageRecord) Source() string {
	return r.source
}

func (r *UsageRecord) SourceID() string {
	return r.sourceID
}

func (r *UsageRecord) Metadata() map[string]any {
	return maps.Clone(r.metadata)
}

func (r *UsageRecord) RecordedAt() time.Time {
	return r.recordedAt
}

func (r *UsageRecord) CreatedAt() time.Time {
	return r.createdAt
}

// UsageLedger is the append-only usage history of one subscription. It does
// not touch the subscription's data counter; callers do that explicitly.
type UsageLedger struct {
	subscriptionID string
	records        []*UsageRecord
	persisted      int
}

func NewUsageLedger(subscriptionID string) *UsageLedger {
	return &UsageLedger{subscriptionID: subscriptionID}
}

// ReconstructUsageLedger restores a ledger whose records are all persisted.
// It may hold only a window of the full history.
func ReconstructUsageLedger(subscriptionID string, records []*UsageRecord) *UsageLedger {
	copied := make([]*UsageRecord, 0, len(records))
	for _, r := range records {
		if r != nil {
			copied = append(copied, r)
		}
	}
	return &UsageLedger{
		subscriptionID: subscriptionID,
		records:        copied,
		persisted:      len(copied),
	}
}

func (l *UsageLedger) SubscriptionID() string {
	return l.subscriptionID
}

func (l *UsageLedger) append(record *UsageRecord) {
	l.records = append(l.records, record)
}

func (l *UsageLedger) Len() int {
	return len(l.records)
}

// Records returns every loaded record in append order.
func (l *UsageLedger) Records() []*UsageRecord {
	out := make([]*UsageRecord, len(l.records))
	copy(out, l.records)
	return out
}

// ByKind returns the records of one kind.
func (l *UsageLedger) ByKind(kind vo.UsageKind) []*UsageRecord {
	return l.filter(func(r *UsageRecord) bool { return r.kind == kind })
}

// Between returns records with from <= recordedAt < to.
func (l *UsageLedger) Between(from, to time.Time) []*UsageRecord {
	return l.filter(func(r *UsageRecord) bool {
		return !r.recordedAt.Before(from) && r.recordedAt.Before(to)
	})
}

// ByKindBetween combines ByKind and Between.
func (l *UsageLedger) ByKindBetween(kind vo.UsageKind, from, to time.Time) []*UsageRecord {
	return l.filter(func(r *UsageRecord) bool {
		return r.kind == kind && !r.recordedAt.Before(from) && r.recordedAt.Before(to)
	})
}

// TotalAmount sums the amounts of one kind.
func (l *UsageLedger) TotalAmount(kind vo.UsageKind) int64 {
	var total int64
	for _, r := range l.records {
		if r.kind == kind {
			total += r.amount
		}
	}
	return total
}

// PendingRecords returns records appended since the ledger was loaded or
// last marked persisted.
func (l *UsageLedger) PendingRecords() []*UsageRecord {
	out := make([]*UsageRecord, len(l.records)-l.persisted)
	copy(out, l.records[l.persisted:])
	return out
}

// MarkPersisted is called by the repository after pending records are stored.
func (l *UsageLedger) MarkPersisted() {
	l.persisted = len(l.records)
}

func (l *UsageLedger) filter(keep func(*UsageRecord) bool) []*UsageRecord {
	var out []*UsageRecord
	for _, r := range l.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
