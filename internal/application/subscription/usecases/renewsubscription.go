package usecases

import (
	"context"
	"strings"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// RenewSubscriptionCommand is issued after an external payment has been
// confirmed. PaymentReference identifies that payment.
type RenewSubscriptionCommand struct {
	SubscriptionID   string
	Days             int
	NewDataLimit     *int64
	PaymentReference string
}

// RenewSubscriptionUseCase extends a subscription by a paid period.
type RenewSubscriptionUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewRenewSubscriptionUseCase(mutator *SubscriptionMutator, logger logger.Interface) *RenewSubscriptionUseCase {
	return &RenewSubscriptionUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *RenewSubscriptionUseCase) Execute(ctx context.Context, cmd RenewSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	if strings.TrimSpace(cmd.PaymentReference) == "" {
		return nil, apperrors.NewValidationError("payment reference is required to renew")
	}

	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "renew", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Renew(cmd.Days, cmd.NewDataLimit, sink)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("subscription renewed",
		"subscription_id", sub.ID(),
		"days", cmd.Days,
		"payment_reference", cmd.PaymentReference,
		"expiry_date", sub.ExpiryDate(),
	)
	return dto.ToSubscriptionDTO(sub), nil
}
