package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// FeatureAction names one feature operation.
type FeatureAction string

const (
	FeatureActionAdd         FeatureAction = "add"
	FeatureActionRemove      FeatureAction = "remove"
	FeatureActionUpdateValue FeatureAction = "update-value"
	FeatureActionUpdateLimit FeatureAction = "update-limit"
	FeatureActionEnable      FeatureAction = "enable"
	FeatureActionDisable     FeatureAction = "disable"
	FeatureActionIncrement   FeatureAction = "increment"
	FeatureActionDecrement   FeatureAction = "decrement"
	FeatureActionReset       FeatureAction = "reset"
)

// ManageFeatureCommand carries the inputs of every feature action. Only the
// fields the action reads need to be set: Spec for add, Value for
// update-value, Limit for update-limit, Amount for increment and decrement.
type ManageFeatureCommand struct {
	SubscriptionID string
	Name           string
	Action         FeatureAction
	Spec           FeatureSpec
	Value          any
	Limit          *int64
	Amount         int64
}

type ManageFeatureUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewManageFeatureUseCase(mutator *SubscriptionMutator, logger logger.Interface) *ManageFeatureUseCase {
	return &ManageFeatureUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *ManageFeatureUseCase) Execute(ctx context.Context, cmd ManageFeatureCommand) (*dto.SubscriptionDTO, error) {
	apply, err := featureMutation(cmd)
	if err != nil {
		return nil, err
	}

	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "feature "+string(cmd.Action), apply)
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}

func featureMutation(cmd ManageFeatureCommand) (MutationFunc, error) {
	name := cmd.Name
	switch cmd.Action {
	case FeatureActionAdd:
		spec := cmd.Spec
		if spec.Name == "" {
			spec.Name = name
		}
		f, err := buildFeature(spec)
		if err != nil {
			return nil, translateDomainError(err)
		}
		return func(s *subscription.Subscription, sink subscription.EventSink) error {
			return s.AddFeature(f, sink)
		}, nil
	case FeatureActionRemove:
		return func(s *subscription.Subscription, sink subscription.EventSink) error {
			return s.RemoveFeature(name, sink)
		}, nil
	case FeatureActionUpdateValue:
		return func(s *subscription.Subscription, sink subscription.EventSink) error {
			return s.UpdateFeatureValue(name, cmd.Value, sink)
		}, nil
	case FeatureActionUpdateLimit:
		return func(s *subscription.Subscription, sink subscription.EventSink) error {
			return s.UpdateFeatureLimit(name, cmd.Limit, sink)
		}, nil
	case FeatureActionEnable:
		return func(s *subscription.Subscription, sink subscription.EventSink) error {
			return s.EnableFeature(name, sink)
		}, nil
	case FeatureActionDisable:
		return func(s *subscription.Subscription, sink subscription.EventSink) error {
			return s.DisableFeature(name, sink)
		}, nil
	case FeatureActionIncrement:
		return func(s *subscription.Subscription, sink subscription.EventSink) error {
			return s.IncrementFeature(name, cmd.Amount, sink)
		}, nil
	case FeatureActionDecrement:
		return func(s *subscription.Subscription, sink subscription.EventSink) error {
			return s.DecrementFeature(name, cmd.Amount, sink)
		}, nil
	case FeatureActionReset:
		return func(s *subscription.Subscription, sink subscription.EventSink) error {
			return s.ResetFeature(name, sink)
		}, nil
	}
	return nil, apperrors.NewValidationError("unknown feature action", string(cmd.Action))
}
