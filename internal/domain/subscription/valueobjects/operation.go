package valueobjects

// Operation names a status-changing command on a subscription.
type Operation string

const (
	OpActivate     Operation = "activate"
	OpSuspend      Operation = "suspend"
	OpResume       Operation = "resume"
	OpCancel       Operation = "cancel"
	OpExpire       Operation = "expire"
	OpRenew        Operation = "renew"
	OpStartTrial   Operation = "start trial for"
	OpConvertTrial Operation = "convert trial of"
	OpPause        Operation = "pause"
	OpUnpause      Operation = "unpause"
	// OpMutate covers every non-status mutation: usage, limits, auto-renew,
	// features and ledger appends.
	OpMutate Operation = "modify"
)

var allButCancelled = []SubscriptionStatus{
	StatusPending, StatusActive, StatusSuspended, StatusExpired,
	StatusTrial, StatusGracePeriod, StatusPaused,
}

// legalSources is the single table of which statuses permit which operation.
var legalSources = map[Operation][]SubscriptionStatus{
	OpActivate:     {StatusPending},
	OpSuspend:      {StatusActive},
	OpResume:       {StatusSuspended},
	OpCancel:       allButCancelled,
	OpExpire:       {StatusActive},
	OpRenew:        allButCancelled,
	OpStartTrial:   {StatusPending},
	OpConvertTrial: {StatusTrial},
	OpPause:        {StatusActive},
	OpUnpause:      {StatusPaused},
	OpMutate:       allButCancelled,
}

func (op Operation) String() string {
	return string(op)
}

// Permits reports whether op may be applied to a subscription in status s.
func (s SubscriptionStatus) Permits(op Operation) bool {
	for _, from := range legalSources[op] {
		if from == s {
			return true
		}
	}
	return false
}
