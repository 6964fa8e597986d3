package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
)

// QuotaCacheManager keeps the agent-facing quota cache in line with
// persisted subscriptions.
type QuotaCacheManager interface {
	SyncQuotaFromSubscription(ctx context.Context, sub *subscription.Subscription) error
	InvalidateQuota(ctx context.Context, subscriptionID string) error
}

// RenewalPaymentConfirmer settles one renewal period for an auto-renewing
// subscription. ok is false when payment could not be taken; the renewal is
// then skipped and retried on the next run.
type RenewalPaymentConfirmer interface {
	ConfirmRenewal(ctx context.Context, sub *subscription.Subscription) (reference string, ok bool, err error)
}

// UsageSource yields traffic deltas reported by panel agents since the last
// drain, keyed by subscription ID.
type UsageSource interface {
	Drain(ctx context.Context) (map[string]int64, error)
	AddBatch(ctx context.Context, deltas map[string]int64) error
}

// TrustedRenewalConfirmer approves every renewal. Used when billing is
// settled upstream before the subscription comes due.
type TrustedRenewalConfirmer struct{}

const trustedRenewalReference = "auto-renew:trusted"

func (TrustedRenewalConfirmer) ConfirmRenewal(context.Context, *subscription.Subscription) (string, bool, error) {
	return trustedRenewalReference, true, nil
}
