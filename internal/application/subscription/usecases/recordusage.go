package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// Usage sources.
const (
	UsageSourcePanel  = "panel"
	UsageSourceAPI    = "api"
	UsageSourceManual = "manual"
)

// RecordUsageCommand appends one usage record. Feature is required for
// feature usage and ignored otherwise.
type RecordUsageCommand struct {
	SubscriptionID string
	Kind           string
	Amount         int64
	Feature        string
	Source         string
	SourceID       string
	RecordedAt     time.Time
	Metadata       map[string]any
}

// RecordUsageUseCase writes the ledger. Data usage additionally advances the
// data counter in the same operation, which may suspend the subscription at
// its cap.
type RecordUsageUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewRecordUsageUseCase(mutator *SubscriptionMutator, logger logger.Interface) *RecordUsageUseCase {
	return &RecordUsageUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *RecordUsageUseCase) Execute(ctx context.Context, cmd RecordUsageCommand) (*dto.SubscriptionDTO, error) {
	kind, err := vo.NewUsageKind(cmd.Kind)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid usage kind", err.Error())
	}

	opts := []subscription.UsageOption{
		subscription.WithSourceID(cmd.SourceID),
		subscription.WithRecordedAt(cmd.RecordedAt),
	}
	if cmd.Metadata != nil {
		opts = append(opts, subscription.WithUsageMetadata(cmd.Metadata))
	}

	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "record "+kind.String()+" usage", func(s *subscription.Subscription, sink subscription.EventSink) error {
		switch kind {
		case vo.UsageKindData:
			if _, err := s.RecordDataUsage(cmd.Amount, cmd.Source, sink, opts...); err != nil {
				return err
			}
			return s.AddDataUsage(cmd.Amount, sink)
		case vo.UsageKindTime:
			_, err := s.RecordTimeUsage(cmd.Amount, cmd.Source, sink, opts...)
			return err
		default:
			_, err := s.RecordFeatureUsage(cmd.Feature, cmd.Amount, cmd.Source, sink, opts...)
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}
