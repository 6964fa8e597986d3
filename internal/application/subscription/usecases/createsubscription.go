package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// FeatureSpec describes a feature to attach at creation.
type FeatureSpec struct {
	Name        string
	Description string
	Kind        string
	Value       any
	Limit       *int64
}

// CreateSubscriptionCommand represents the command to create a subscription.
// Activate and TrialDays are mutually exclusive; with neither the
// subscription stays pending.
type CreateSubscriptionCommand struct {
	UserID            string
	PanelID           string
	Name              string
	Type              string
	DataLimit         *int64
	UnlimitedData     bool
	ExpiryDays        int
	NoExpiry          bool
	AutoRenew         bool
	RenewalPeriodDays int
	Amount            int64
	Metadata          map[string]any
	Features          []FeatureSpec
	Activate          bool
	TrialDays         int
}

// CreateSubscriptionUseCase handles subscription creation
type CreateSubscriptionUseCase struct {
	mutator *SubscriptionMutator
	clock   subscription.Clock
	logger  logger.Interface
}

// NewCreateSubscriptionUseCase creates a new CreateSubscriptionUseCase
func NewCreateSubscriptionUseCase(
	mutator *SubscriptionMutator,
	clock subscription.Clock,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		mutator: mutator,
		clock:   clock,
		logger:  logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	if cmd.Activate && cmd.TrialDays > 0 {
		return nil, apperrors.NewValidationError("activate and trial_days cannot be combined")
	}

	subType, err := vo.NewSubscriptionType(cmd.Type)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid subscription type", err.Error())
	}

	features, err := buildFeatures(cmd.Features)
	if err != nil {
		return nil, translateDomainError(err)
	}

	buffer := subscription.NewEventBuffer()
	sub, err := subscription.NewSubscription(subscription.CreateParams{
		UserID:            cmd.UserID,
		PanelID:           cmd.PanelID,
		Name:              cmd.Name,
		Type:              subType,
		DataLimit:         cmd.DataLimit,
		UnlimitedData:     cmd.UnlimitedData,
		ExpiryDays:        cmd.ExpiryDays,
		NoExpiry:          cmd.NoExpiry,
		AutoRenew:         cmd.AutoRenew,
		RenewalPeriodDays: cmd.RenewalPeriodDays,
		Amount:            cmd.Amount,
		Metadata:          cmd.Metadata,
		Features:          features,
	}, uc.clock, buffer)
	if err != nil {
		uc.logger.Warnw("invalid subscription create request", "user_id", cmd.UserID, "error", err)
		return nil, translateDomainError(err)
	}

	switch {
	case cmd.Activate:
		err = sub.Activate(buffer)
	case cmd.TrialDays > 0:
		err = sub.StartTrial(cmd.TrialDays, buffer)
	}
	if err != nil {
		return nil, translateDomainError(err)
	}

	if err := uc.mutator.Create(ctx, sub, buffer); err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}

func buildFeatures(specs []FeatureSpec) ([]*subscription.Feature, error) {
	features := make([]*subscription.Feature, 0, len(specs))
	for _, spec := range specs {
		f, err := buildFeature(spec)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}

func buildFeature(spec FeatureSpec) (*subscription.Feature, error) {
	kind, err := vo.NewFeatureKind(spec.Kind)
	if err != nil {
		return nil, &subscription.ValidationError{Field: "feature kind", Message: "is invalid: " + spec.Kind}
	}
	return subscription.NewFeature(spec.Name, spec.Description, kind, spec.Value, spec.Limit)
}
