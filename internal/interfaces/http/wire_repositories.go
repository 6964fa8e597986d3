package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/infrastructure/repository"
	"github.com/orris-inc/proxypanel/internal/shared/db"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

type repositories struct {
	subscriptionRepo subscription.SubscriptionRepository
	usageRecordRepo  subscription.UsageRecordRepository
	txManager        *db.TransactionManager
}

func newRepositories(gdb *gorm.DB, clock subscription.Clock, log logger.Interface) *repositories {
	return &repositories{
		subscriptionRepo: repository.NewSubscriptionRepository(gdb, clock, log),
		usageRecordRepo:  repository.NewUsageRecordRepository(gdb, log),
		txManager:        db.NewTransactionManager(gdb),
	}
}
