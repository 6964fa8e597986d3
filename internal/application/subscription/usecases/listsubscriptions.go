package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
	"github.com/orris-inc/proxypanel/internal/shared/query"
)

type ListSubscriptionsQuery struct {
	UserID    string
	PanelID   string
	Status    string
	Type      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type ListSubscriptionsResult struct {
	Subscriptions []*dto.SubscriptionDTO
	Total         int64
}

type ListSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewListSubscriptionsUseCase(subscriptionRepo subscription.SubscriptionRepository, logger logger.Interface) *ListSubscriptionsUseCase {
	return &ListSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *ListSubscriptionsUseCase) Execute(ctx context.Context, q ListSubscriptionsQuery) (*ListSubscriptionsResult, error) {
	filter := subscription.SubscriptionFilter{
		BaseFilter: query.NewBaseFilter(query.WithPage(q.Page, q.PageSize)),
		UserID:     q.UserID,
		PanelID:    q.PanelID,
	}
	if q.SortBy != "" {
		filter.SortBy = q.SortBy
	}
	if q.SortOrder != "" {
		filter.SortOrder = q.SortOrder
	}

	if q.Status != "" {
		status, err := vo.ParseSubscriptionStatus(q.Status)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid status filter", err.Error())
		}
		filter.Status = &status
	}
	if q.Type != "" {
		subType, err := vo.NewSubscriptionType(q.Type)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid type filter", err.Error())
		}
		filter.Type = &subType
	}

	subs, total, err := uc.subscriptionRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "error", err)
		return nil, apperrors.NewInternalError("failed to list subscriptions").WithCause(err)
	}

	return &ListSubscriptionsResult{
		Subscriptions: dto.ToSubscriptionDTOs(subs),
		Total:         total,
	}, nil
}
