package valueobjects

import "fmt"

// SubscriptionType classifies a subscription. Its policy is applied only when
// a subscription is created and is not enforced afterwards.
type SubscriptionType string

const (
	TypeBasic      SubscriptionType = "basic"
	TypePremium    SubscriptionType = "premium"
	TypeEnterprise SubscriptionType = "enterprise"
	TypeTrial      SubscriptionType = "trial"
	TypeCustom     SubscriptionType = "custom"
	TypeUnlimited  SubscriptionType = "unlimited"
	TypeLimited    SubscriptionType = "limited"
	TypeFamily     SubscriptionType = "family"
	TypeStudent    SubscriptionType = "student"
	TypeBusiness   SubscriptionType = "business"
)

const gib int64 = 1 << 30

// TypePolicy holds the creation-time defaults of a subscription type.
// A nil DefaultDataLimit means unlimited; MaxDevices of zero means the type
// does not cap devices.
type TypePolicy struct {
	MaxDevices         int64
	DefaultDataLimit   *int64
	DefaultRenewalDays int
}

func limitOf(bytes int64) *int64 {
	return &bytes
}

var typePolicies = map[SubscriptionType]TypePolicy{
	TypeBasic:      {MaxDevices: 3, DefaultDataLimit: limitOf(100 * gib), DefaultRenewalDays: 30},
	TypePremium:    {MaxDevices: 5, DefaultDataLimit: limitOf(500 * gib), DefaultRenewalDays: 30},
	TypeEnterprise: {MaxDevices: 50, DefaultDataLimit: nil, DefaultRenewalDays: 30},
	TypeTrial:      {MaxDevices: 1, DefaultDataLimit: limitOf(5 * gib), DefaultRenewalDays: 7},
	TypeCustom:     {MaxDevices: 0, DefaultDataLimit: nil, DefaultRenewalDays: 30},
	TypeUnlimited:  {MaxDevices: 10, DefaultDataLimit: nil, DefaultRenewalDays: 30},
	TypeLimited:    {MaxDevices: 1, DefaultDataLimit: limitOf(10 * gib), DefaultRenewalDays: 30},
	TypeFamily:     {MaxDevices: 6, DefaultDataLimit: limitOf(300 * gib), DefaultRenewalDays: 30},
	TypeStudent:    {MaxDevices: 2, DefaultDataLimit: limitOf(50 * gib), DefaultRenewalDays: 30},
	TypeBusiness:   {MaxDevices: 20, DefaultDataLimit: limitOf(1024 * gib), DefaultRenewalDays: 30},
}

// NewSubscriptionType validates and returns a subscription type.
func NewSubscriptionType(s string) (SubscriptionType, error) {
	t := SubscriptionType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid subscription type: %s", s)
	}
	return t, nil
}

func (t SubscriptionType) String() string {
	return string(t)
}

func (t SubscriptionType) IsValid() bool {
	_, ok := typePolicies[t]
	return ok
}

// Policy returns the creation-time defaults for t. The returned limit pointer
// is a fresh copy.
func (t SubscriptionType) Policy() TypePolicy {
	p := typePolicies[t]
	if p.DefaultDataLimit != nil {
		p.DefaultDataLimit = limitOf(*p.DefaultDataLimit)
	}
	return p
}
