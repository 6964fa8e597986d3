package handlers

import (
	"context"

	subdto "github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/application/subscription/usecases"
)

// Use case interfaces for SubscriptionHandler

type createSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateSubscriptionCommand) (*subdto.SubscriptionDTO, error)
}

type getSubscriptionUseCase interface {
	Execute(ctx context.Context, query usecases.GetSubscriptionQuery) (*subdto.SubscriptionDTO, error)
}

type listSubscriptionsUseCase interface {
	Execute(ctx context.Context, query usecases.ListSubscriptionsQuery) (*usecases.ListSubscriptionsResult, error)
}

type deleteSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.DeleteSubscriptionCommand) error
}

type getUsageSummaryUseCase interface {
	Execute(ctx context.Context, query usecases.GetUsageSummaryQuery) (*subdto.UsageSummaryDTO, error)
}

type listUsageRecordsUseCase interface {
	Execute(ctx context.Context, query usecases.ListUsageRecordsQuery) ([]*subdto.UsageRecordDTO, error)
}
