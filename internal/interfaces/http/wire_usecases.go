package http

import (
	"github.com/orris-inc/proxypanel/internal/application/subscription/usecases"
)

type allUseCases struct {
	mutator *usecases.SubscriptionMutator

	createSubscription *usecases.CreateSubscriptionUseCase
	getSubscription    *usecases.GetSubscriptionUseCase
	listSubscriptions  *usecases.ListSubscriptionsUseCase
	deleteSubscription *usecases.DeleteSubscriptionUseCase
	countByStatus      *usecases.CountSubscriptionsByStatusUseCase

	activateSubscription *usecases.ActivateSubscriptionUseCase
	suspendSubscription  *usecases.SuspendSubscriptionUseCase
	resumeSubscription   *usecases.ResumeSubscriptionUseCase
	cancelSubscription   *usecases.CancelSubscriptionUseCase
	expireSubscription   *usecases.ExpireSubscriptionUseCase
	renewSubscription    *usecases.RenewSubscriptionUseCase
	startTrial           *usecases.StartTrialUseCase
	convertTrial         *usecases.ConvertTrialUseCase
	pauseSubscription    *usecases.PauseSubscriptionUseCase
	unpauseSubscription  *usecases.UnpauseSubscriptionUseCase

	recordUsage     *usecases.RecordUsageUseCase
	setDataUsage    *usecases.SetDataUsageUseCase
	resetDataUsage  *usecases.ResetDataUsageUseCase
	updateDataLimit *usecases.UpdateDataLimitUseCase
	setAutoRenew    *usecases.SetAutoRenewUseCase
	manageFeature   *usecases.ManageFeatureUseCase
	usageSummary    *usecases.GetUsageSummaryUseCase
	usageRecords    *usecases.ListUsageRecordsUseCase

	expireSubscriptions *usecases.ExpireSubscriptionsUseCase
	processAutoRenewals *usecases.ProcessAutoRenewalsUseCase
	flushTrafficUsage   *usecases.FlushTrafficUsageUseCase
}
