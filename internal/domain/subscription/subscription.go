package subscription

import (
	"maps"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orris-inc/proxypanel/internal/domain/shared/events"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/proxypanel/internal/shared/id"
)

// Metadata keys written by the aggregate.
const (
	MetadataSuspensionReason   = "suspension_reason"
	MetadataCancellationReason = "cancellation_reason"
	MetadataPauseReason        = "pause_reason"
)

// ReasonDataLimitExceeded is the suspension reason set by automatic cap
// enforcement. Only suspensions carrying this reason are lifted automatically.
const ReasonDataLimitExceeded = "Data limit exceeded"

// Sentinels returned by derived queries.
const (
	UnlimitedData = int64(-1)
	NoExpiry      = -1
)

// Subscription is the aggregate root for a customer's access entitlement.
type Subscription struct {
	id                string
	uuid              string
	userID            string
	panelID           string
	name              string
	subType           vo.SubscriptionType
	status            vo.SubscriptionStatus
	dataLimit         *int64
	dataUsed          int64
	expiryDate        *time.Time
	activatedAt       *time.Time
	suspendedAt       *time.Time
	cancelledAt       *time.Time
	autoRenew         bool
	renewalPeriodDays *int
	metadata          map[string]any
	features          []*Feature
	ledger            *UsageLedger
	version           int
	storedVersion     int
	createdAt         time.Time
	updatedAt         time.Time
	clock             Clock
}

// CreateParams holds the input of NewSubscription.
type CreateParams struct {
	UserID  string
	PanelID string
	Name    string
	Type    vo.SubscriptionType
	// DataLimit overrides the type default. Ignored when UnlimitedData is set.
	DataLimit     *int64
	UnlimitedData bool
	// ExpiryDays of zero means the type's default period.
	ExpiryDays int
	NoExpiry   bool
	AutoRenew  bool
	// RenewalPeriodDays of zero falls back to the type's default period.
	RenewalPeriodDays int
	Amount            int64
	Metadata          map[string]any
	Features          []*Feature
}

// NewSubscription creates a pending subscription and records a
// SubscriptionCreatedEvent.
func NewSubscription(params CreateParams, clock Clock, sink EventSink) (*Subscription, error) {
	if clock == nil {
		clock = SystemClock{}
	}

	userID := strings.TrimSpace(params.UserID)
	if userID == "" {
		return nil, errValidation("user ID", "is required")
	}
	if !params.Type.IsValid() {
		return nil, errValidation("subscription type", "is invalid: "+params.Type.String())
	}
	if params.DataLimit != nil && *params.DataLimit < 0 {
		return nil, errValidation("data limit", "must not be negative")
	}
	if params.ExpiryDays < 0 {
		return nil, errValidation("expiry days", "must not be negative")
	}
	if params.RenewalPeriodDays < 0 {
		return nil, errValidation("renewal period", "must not be negative")
	}
	if params.Amount < 0 {
		return nil, errValidation("amount", "must not be negative")
	}

	subID, err := id.NewSubscriptionID()
	if err != nil {
		return nil, errValidation("subscription ID", "could not be generated: "+err.Error())
	}

	policy := params.Type.Policy()
	now := clock.Now()

	var dataLimit *int64
	switch {
	case params.UnlimitedData:
	case params.DataLimit != nil:
		dataLimit = copyInt64(params.DataLimit)
	default:
		dataLimit = policy.DefaultDataLimit
	}

	var expiry *time.Time
	if !params.NoExpiry {
		days := params.ExpiryDays
		if days == 0 {
			days = policy.DefaultRenewalDays
		}
		e := now.AddDate(0, 0, days)
		expiry = &e
	}

	var renewalDays *int
	if params.AutoRenew {
		days := params.RenewalPeriodDays
		if days == 0 {
			days = policy.DefaultRenewalDays
		}
		renewalDays = &days
	} else if params.RenewalPeriodDays > 0 {
		days := params.RenewalPeriodDays
		renewalDays = &days
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = params.Type.String()
	}

	metadata := maps.Clone(params.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}

	s := &Subscription{
		id:                subID,
		uuid:              uuid.NewString(),
		userID:            userID,
		panelID:           strings.TrimSpace(params.PanelID),
		name:              name,
		subType:           params.Type,
		status:            vo.StatusPending,
		dataLimit:         dataLimit,
		expiryDate:        expiry,
		autoRenew:         params.AutoRenew,
		renewalPeriodDays: renewalDays,
		metadata:          metadata,
		ledger:            NewUsageLedger(subID),
		version:           1,
		createdAt:         now,
		updatedAt:         now,
		clock:             clock,
	}

	for _, f := range params.Features {
		if f == nil {
			continue
		}
		if s.findFeature(f.Name()) != nil {
			return nil, errValidation("feature", "duplicate name "+f.Name())
		}
		s.features = append(s.features, f.clone())
	}
	if policy.MaxDevices > 0 && s.findFeature(FeatureMaxDevices) == nil {
		devices, err := NewNumericFeature(FeatureMaxDevices, 0, &policy.MaxDevices)
		if err != nil {
			return nil, err
		}
		s.features = append(s.features, devices)
	}

	record(sink, &SubscriptionCreatedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeCreated, now),
		Type:              s.subType,
		PanelID:           s.panelID,
		Amount:            params.Amount,
		DataLimit:         copyInt64(s.dataLimit),
		StartDate:         now,
		EndDate:           copyTime(s.expiryDate),
	})

	return s, nil
}

// ReconstructSubscription restores an aggregate from a persisted snapshot and
// the loaded window of its usage ledger.
func ReconstructSubscription(snap Snapshot, records []*UsageRecord, clock Clock) (*Subscription, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	if snap.ID == "" {
		return nil, errValidation("subscription ID", "is required")
	}
	if snap.UserID == "" {
		return nil, errValidation("user ID", "is required")
	}
	if !snap.Type.IsValid() {
		return nil, errValidation("subscription type", "is invalid: "+snap.Type.String())
	}
	if !snap.Status.IsValid() {
		return nil, errValidation("status", "is invalid: "+snap.Status.String())
	}
	if snap.DataUsed < 0 {
		return nil, errValidation("data used", "must not be negative")
	}
	if snap.DataLimit != nil && *snap.DataLimit < 0 {
		return nil, errValidation("data limit", "must not be negative")
	}
	if snap.AutoRenew && (snap.RenewalPeriodDays == nil || *snap.RenewalPeriodDays < 1) {
		return nil, errValidation("renewal period", "is required when auto-renew is enabled")
	}

	s := &Subscription{
		id:                snap.ID,
		uuid:              snap.UUID,
		userID:            snap.UserID,
		panelID:           snap.PanelID,
		name:              snap.Name,
		subType:           snap.Type,
		status:            snap.Status,
		dataLimit:         copyInt64(snap.DataLimit),
		dataUsed:          snap.DataUsed,
		expiryDate:        copyTime(snap.ExpiryDate),
		activatedAt:       copyTime(snap.ActivatedAt),
		suspendedAt:       copyTime(snap.SuspendedAt),
		cancelledAt:       copyTime(snap.CancelledAt),
		autoRenew:         snap.AutoRenew,
		renewalPeriodDays: copyInt(snap.RenewalPeriodDays),
		metadata:          maps.Clone(snap.Metadata),
		ledger:            ReconstructUsageLedger(snap.ID, records),
		version:           snap.Version,
		storedVersion:     snap.Version,
		createdAt:         snap.CreatedAt,
		updatedAt:         snap.UpdatedAt,
		clock:             clock,
	}
	if s.metadata == nil {
		s.metadata = make(map[string]any)
	}

	for _, fs := range snap.Features {
		f, err := ReconstructFeature(fs.Name, fs.Description, fs.Kind, fs.Value, fs.Limit, fs.Enabled)
		if err != nil {
			return nil, err
		}
		if s.findFeature(f.Name()) != nil {
			return nil, errValidation("feature", "duplicate name "+f.Name())
		}
		s.features = append(s.features, f)
	}

	return s, nil
}

// ID returns the prefixed subscription ID
func (s *Subscription) ID() string {
	return s.id
}

// UUID returns the external UUID
func (s *Subscription) UUID() string {
	return s.uuid
}

// UserID returns the owning user
func (s *Subscription) UserID() string {
	return s.userID
}

// PanelID returns the proxy panel the subscription is provisioned on
func (s *Subscription) PanelID() string {
	return s.panelID
}

// Name returns the display name
func (s *Subscription) Name() string {
	return s.name
}

// Type returns the subscription type
func (s *Subscription) Type() vo.SubscriptionType {
	return s.subType
}

// Status returns the lifecycle status
func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

// DataLimit returns the traffic cap in bytes, nil meaning unlimited
func (s *Subscription) DataLimit() *int64 {
	return copyInt64(s.dataLimit)
}

// DataUsed returns the consumed traffic in bytes
func (s *Subscription) DataUsed() int64 {
	return s.dataUsed
}

// ExpiryDate returns the expiry, nil meaning it never expires
func (s *Subscription) ExpiryDate() *time.Time {
	return copyTime(s.expiryDate)
}

// ActivatedAt returns when the subscription was last activated
func (s *Subscription) ActivatedAt() *time.Time {
	return copyTime(s.activatedAt)
}

// SuspendedAt returns when the subscription was suspended
func (s *Subscription) SuspendedAt() *time.Time {
	return copyTime(s.suspendedAt)
}

// CancelledAt returns when the subscription was cancelled
func (s *Subscription) CancelledAt() *time.Time {
	return copyTime(s.cancelledAt)
}

// AutoRenew returns the auto-renew setting
func (s *Subscription) AutoRenew() bool {
	return s.autoRenew
}

// RenewalPeriodDays returns the auto-renew period
func (s *Subscription) RenewalPeriodDays() *int {
	return copyInt(s.renewalPeriodDays)
}

// Metadata returns a copy of the metadata
func (s *Subscription) Metadata() map[string]any {
	return maps.Clone(s.metadata)
}

// SuspensionReason returns the reason of the current suspension
func (s *Subscription) SuspensionReason() string {
	return s.metadataString(MetadataSuspensionReason)
}

// CancellationReason returns the reason given on cancellation
func (s *Subscription) CancellationReason() string {
	return s.metadataString(MetadataCancellationReason)
}

// PauseReason returns the reason of the current pause
func (s *Subscription) PauseReason() string {
	return s.metadataString(MetadataPauseReason)
}

// Features returns copies of the features in insertion order
func (s *Subscription) Features() []*Feature {
	out := make([]*Feature, 0, len(s.features))
	for _, f := range s.features {
		out = append(out, f.clone())
	}
	return out
}

// Ledger returns the usage ledger
func (s *Subscription) Ledger() *UsageLedger {
	return s.ledger
}

// Version returns the optimistic-lock version
func (s *Subscription) Version() int {
	return s.version
}

// StoredVersion returns the version last read from or written to storage.
// Zero means the subscription has never been stored.
func (s *Subscription) StoredVersion() int {
	return s.storedVersion
}

// MarkStored is called by the repository after a successful write.
func (s *Subscription) MarkStored() {
	s.storedVersion = s.version
	s.ledger.MarkPersisted()
}

// CreatedAt returns the creation time
func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns the last modification time
func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// Activate moves a pending subscription to active.
func (s *Subscription) Activate(sink EventSink) error {
	if err := s.ensurePermits(vo.OpActivate); err != nil {
		return err
	}
	now := s.touch()
	s.activate(now, sink)
	return nil
}

// Suspend moves an active subscription to suspended.
func (s *Subscription) Suspend(reason string, sink EventSink) error {
	if err := s.ensurePermits(vo.OpSuspend); err != nil {
		return err
	}
	now := s.touch()
	s.suspend(now, reason, sink)
	return nil
}

// Resume moves a suspended subscription back to active.
func (s *Subscription) Resume(sink EventSink) error {
	if err := s.ensurePermits(vo.OpResume); err != nil {
		return err
	}
	now := s.touch()
	s.resume(now, sink)
	return nil
}

// Cancel terminates the subscription. Auto-renew is switched off.
func (s *Subscription) Cancel(reason string, sink EventSink) error {
	if err := s.ensurePermits(vo.OpCancel); err != nil {
		return err
	}
	now := s.touch()
	s.status = vo.StatusCancelled
	s.cancelledAt = &now
	s.autoRenew = false
	if reason != "" {
		s.metadata[MetadataCancellationReason] = reason
	}
	record(sink, &SubscriptionCancelledEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeCancelled, now),
		Reason:            reason,
		CancelledAt:       now,
	})
	return nil
}

// Expire moves an active subscription to expired.
func (s *Subscription) Expire(sink EventSink) error {
	if err := s.ensurePermits(vo.OpExpire); err != nil {
		return err
	}
	now := s.touch()
	s.status = vo.StatusExpired
	record(sink, &SubscriptionExpiredEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeExpired, now),
		ExpiredAt:         now,
	})
	return nil
}

// Renew extends the expiry by days. An unexpired subscription keeps its
// remaining time; an expired one or one without expiry restarts from now.
// A non-nil newDataLimit replaces the cap and zeroes the usage counter.
// Expired and suspended subscriptions are reactivated.
func (s *Subscription) Renew(days int, newDataLimit *int64, sink EventSink) error {
	if err := s.ensurePermits(vo.OpRenew); err != nil {
		return err
	}
	if days < 1 {
		return errValidation("days", "must be at least 1")
	}
	if newDataLimit != nil && *newDataLimit < 0 {
		return errValidation("data limit", "must not be negative")
	}

	now := s.touch()
	oldExpiry := copyTime(s.expiryDate)

	base := now
	if s.expiryDate != nil && s.expiryDate.After(now) {
		base = *s.expiryDate
	}
	newExpiry := base.AddDate(0, 0, days)
	s.expiryDate = &newExpiry

	if newDataLimit != nil {
		s.dataLimit = copyInt64(newDataLimit)
		s.dataUsed = 0
	}

	record(sink, &SubscriptionRenewedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeRenewed, now),
		Days:              days,
		OldExpiryDate:     oldExpiry,
		NewExpiryDate:     newExpiry,
		NewDataLimit:      copyInt64(newDataLimit),
	})

	if s.status.ReactivatesOnRenewal() {
		s.activate(now, sink)
	}
	return nil
}

// UpdateDataUsage sets the usage counter. Reaching the cap suspends an active
// subscription.
func (s *Subscription) UpdateDataUsage(bytes int64, sink EventSink) error {
	if err := s.ensurePermits(vo.OpMutate); err != nil {
		return err
	}
	if bytes < 0 {
		return errValidation("data used", "must not be negative")
	}
	now := s.touch()
	s.setDataUsed(now, bytes, sink)
	return nil
}

// AddDataUsage adds bytes to the usage counter with the same enforcement as
// UpdateDataUsage.
func (s *Subscription) AddDataUsage(bytes int64, sink EventSink) error {
	if err := s.ensurePermits(vo.OpMutate); err != nil {
		return err
	}
	if bytes < 0 {
		return errValidation("bytes", "must not be negative")
	}
	if bytes > math.MaxInt64-s.dataUsed {
		return errValidation("bytes", "overflows the usage counter")
	}
	now := s.touch()
	s.setDataUsed(now, s.dataUsed+bytes, sink)
	return nil
}

// ResetDataUsage zeroes the usage counter and lifts a cap suspension.
func (s *Subscription) ResetDataUsage(sink EventSink) error {
	if err := s.ensurePermits(vo.OpMutate); err != nil {
		return err
	}
	now := s.touch()
	previous := s.dataUsed
	s.dataUsed = 0
	record(sink, &SubscriptionDataUsageResetEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeDataUsageReset, now),
		Previous:          previous,
	})
	s.applyUsagePolicy(now, usageReset, sink)
	return nil
}

// UpdateDataLimit replaces the cap; nil removes it. A cap suspension is lifted
// once usage is below the new cap.
func (s *Subscription) UpdateDataLimit(limit *int64, sink EventSink) error {
	if err := s.ensurePermits(vo.OpMutate); err != nil {
		return err
	}
	if limit != nil && *limit < 0 {
		return errValidation("data limit", "must not be negative")
	}
	now := s.touch()
	previous := s.dataLimit
	s.dataLimit = copyInt64(limit)
	record(sink, &SubscriptionDataLimitUpdatedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeDataLimitUpdated, now),
		Previous:          previous,
		Current:           copyInt64(limit),
	})
	s.applyUsagePolicy(now, usageLimitChanged, sink)
	return nil
}

// EnableAutoRenew turns auto-renew on with the given period.
func (s *Subscription) EnableAutoRenew(periodDays int, sink EventSink) error {
	if err := s.ensurePermits(vo.OpMutate); err != nil {
		return err
	}
	if periodDays < 1 {
		return errValidation("renewal period", "must be at least 1 day")
	}
	now := s.touch()
	s.autoRenew = true
	s.renewalPeriodDays = &periodDays
	record(sink, &SubscriptionAutoRenewChangedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeAutoRenewChanged, now),
		Enabled:           true,
		PeriodDays:        copyInt(s.renewalPeriodDays),
	})
	return nil
}

// DisableAutoRenew turns auto-renew off, keeping the last period.
func (s *Subscription) DisableAutoRenew(sink EventSink) error {
	if err := s.ensurePermits(vo.OpMutate); err != nil {
		return err
	}
	now := s.touch()
	s.autoRenew = false
	record(sink, &SubscriptionAutoRenewChangedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeAutoRenewChanged, now),
		Enabled:           false,
		PeriodDays:        copyInt(s.renewalPeriodDays),
	})
	return nil
}

// StartTrial moves a pending subscription into a trial ending after days.
func (s *Subscription) StartTrial(days int, sink EventSink) error {
	if err := s.ensurePermits(vo.OpStartTrial); err != nil {
		return err
	}
	if days < 1 {
		return errValidation("trial days", "must be at least 1")
	}
	now := s.touch()
	ends := now.AddDate(0, 0, days)
	s.status = vo.StatusTrial
	s.activatedAt = &now
	s.expiryDate = &ends
	record(sink, &SubscriptionTrialStartedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeTrialStarted, now),
		TrialEndsAt:       ends,
	})
	return nil
}

// ConvertTrial turns a trial into a regular active subscription.
func (s *Subscription) ConvertTrial(sink EventSink) error {
	if err := s.ensurePermits(vo.OpConvertTrial); err != nil {
		return err
	}
	now := s.touch()
	s.activate(now, sink)
	return nil
}

// Pause puts an active subscription on hold at the customer's request.
func (s *Subscription) Pause(reason string, sink EventSink) error {
	if err := s.ensurePermits(vo.OpPause); err != nil {
		return err
	}
	now := s.touch()
	s.status = vo.StatusPaused
	s.metadata[MetadataPauseReason] = reason
	record(sink, &SubscriptionPausedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypePaused, now),
		Reason:            reason,
	})
	return nil
}

// Unpause returns a paused subscription to active.
func (s *Subscription) Unpause(sink EventSink) error {
	if err := s.ensurePermits(vo.OpUnpause); err != nil {
		return err
	}
	now := s.touch()
	delete(s.metadata, MetadataPauseReason)
	s.activate(now, sink)
	return nil
}

// IsActive reports whether the subscription currently grants access.
func (s *Subscription) IsActive() bool {
	if s.status != vo.StatusActive {
		return false
	}
	return !s.IsExpired() && !s.IsDataLimitExceeded()
}

// IsExpired reports whether the expiry date has passed.
func (s *Subscription) IsExpired() bool {
	return s.expiryDate != nil && s.clock.Now().After(*s.expiryDate)
}

// IsDataLimitExceeded reports whether usage has reached the cap.
func (s *Subscription) IsDataLimitExceeded() bool {
	return s.dataLimit != nil && s.dataUsed >= *s.dataLimit
}

// CanBeRenewed reports whether Renew is legal from the current status.
func (s *Subscription) CanBeRenewed() bool {
	return s.status.Permits(vo.OpRenew)
}

// ShouldAutoRenew reports whether the scheduler should renew now.
func (s *Subscription) ShouldAutoRenew() bool {
	return s.autoRenew && s.CanBeRenewed() && s.IsExpired()
}

// RemainingData returns the bytes left under the cap, or UnlimitedData.
func (s *Subscription) RemainingData() int64 {
	if s.dataLimit == nil {
		return UnlimitedData
	}
	return max(*s.dataLimit-s.dataUsed, 0)
}

// DaysUntilExpiry returns whole days left, or NoExpiry.
func (s *Subscription) DaysUntilExpiry() int {
	if s.expiryDate == nil {
		return NoExpiry
	}
	left := s.expiryDate.Sub(s.clock.Now())
	if left <= 0 {
		return 0
	}
	return int(left / (24 * time.Hour))
}

// Snapshot exports the full state for persistence and transport.
func (s *Subscription) Snapshot() Snapshot {
	features := make([]FeatureSnapshot, 0, len(s.features))
	for _, f := range s.features {
		features = append(features, f.snapshot())
	}
	return Snapshot{
		ID:                s.id,
		UUID:              s.uuid,
		UserID:            s.userID,
		PanelID:           s.panelID,
		Name:              s.name,
		Type:              s.subType,
		Status:            s.status,
		DataLimit:         copyInt64(s.dataLimit),
		DataUsed:          s.dataUsed,
		ExpiryDate:        copyTime(s.expiryDate),
		ActivatedAt:       copyTime(s.activatedAt),
		SuspendedAt:       copyTime(s.suspendedAt),
		CancelledAt:       copyTime(s.cancelledAt),
		AutoRenew:         s.autoRenew,
		RenewalPeriodDays: copyInt(s.renewalPeriodDays),
		Metadata:          maps.Clone(s.metadata),
		Features:          features,
		Version:           s.version,
		CreatedAt:         s.createdAt,
		UpdatedAt:         s.updatedAt,
	}
}

func (s *Subscription) ensurePermits(op vo.Operation) error {
	if !s.status.Permits(op) {
		return errInvalidTransition(op, s.status)
	}
	return nil
}

// touch bumps version and updatedAt once per operation and returns the
// operation time.
func (s *Subscription) touch() time.Time {
	now := s.clock.Now()
	s.updatedAt = now
	s.version++
	return now
}

func (s *Subscription) activate(now time.Time, sink EventSink) {
	previous := s.status
	s.status = vo.StatusActive
	s.activatedAt = &now
	s.suspendedAt = nil
	delete(s.metadata, MetadataSuspensionReason)
	record(sink, &SubscriptionActivatedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeActivated, now),
		ActivatedAt:       now,
		PreviousStatus:    previous,
	})
}

func (s *Subscription) suspend(now time.Time, reason string, sink EventSink) {
	s.status = vo.StatusSuspended
	s.suspendedAt = &now
	s.metadata[MetadataSuspensionReason] = reason
	record(sink, &SubscriptionSuspendedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeSuspended, now),
		Reason:            reason,
		SuspendedAt:       now,
	})
}

// resume lifts a suspension without touching activatedAt.
func (s *Subscription) resume(now time.Time, sink EventSink) {
	s.status = vo.StatusActive
	s.suspendedAt = nil
	delete(s.metadata, MetadataSuspensionReason)
	record(sink, &SubscriptionActivatedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeActivated, now),
		ActivatedAt:       now,
		PreviousStatus:    vo.StatusSuspended,
	})
}

func (s *Subscription) setDataUsed(now time.Time, bytes int64, sink EventSink) {
	previous := s.dataUsed
	s.dataUsed = bytes
	record(sink, &SubscriptionDataUsageUpdatedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeDataUsageUpdated, now),
		Previous:          previous,
		Current:           bytes,
	})
	s.applyUsagePolicy(now, usageCounterChanged, sink)
}

type usageTrigger int

const (
	usageCounterChanged usageTrigger = iota
	usageReset
	usageLimitChanged
)

// applyUsagePolicy owns every automatic status change caused by data usage.
// Suspensions for reasons other than the cap are never lifted here.
func (s *Subscription) applyUsagePolicy(now time.Time, trigger usageTrigger, sink EventSink) {
	switch trigger {
	case usageCounterChanged:
		if s.status == vo.StatusActive && s.IsDataLimitExceeded() {
			s.suspend(now, ReasonDataLimitExceeded, sink)
		}
	case usageReset:
		if s.isCapSuspended() {
			s.resume(now, sink)
		}
	case usageLimitChanged:
		if s.isCapSuspended() && !s.IsDataLimitExceeded() {
			s.resume(now, sink)
		}
	}
}

func (s *Subscription) isCapSuspended() bool {
	return s.status == vo.StatusSuspended && s.SuspensionReason() == ReasonDataLimitExceeded
}

func (s *Subscription) metadataString(key string) string {
	v, _ := s.metadata[key].(string)
	return v
}

func record(sink EventSink, event events.DomainEvent) {
	if sink != nil {
		sink.Record(event)
	}
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
