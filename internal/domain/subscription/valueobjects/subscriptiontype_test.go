package valueobjects

import "testing"

func TestNewSubscriptionType(t *testing.T) {
	valid := []string{"basic", "premium", "enterprise", "trial", "custom", "unlimited", "limited", "family", "student", "business"}
	for _, s := range valid {
		if _, err := NewSubscriptionType(s); err != nil {
			t.Errorf("NewSubscriptionType(%q) error = %v", s, err)
		}
	}
	if _, err := NewSubscriptionType("gold"); err == nil {
		t.Error("NewSubscriptionType(gold) error = nil, want error")
	}
}

func TestSubscriptionType_Policy(t *testing.T) {
	tests := []struct {
		subType    SubscriptionType
		maxDevices int64
		limit      int64 // -1 means unlimited
		days       int
	}{
		{TypeBasic, 3, 100 * gib, 30},
		{TypePremium, 5, 500 * gib, 30},
		{TypeEnterprise, 50, -1, 30},
		{TypeTrial, 1, 5 * gib, 7},
		{TypeCustom, 0, -1, 30},
		{TypeUnlimited, 10, -1, 30},
		{TypeLimited, 1, 10 * gib, 30},
		{TypeFamily, 6, 300 * gib, 30},
		{TypeStudent, 2, 50 * gib, 30},
		{TypeBusiness, 20, 1024 * gib, 30},
	}

	for _, tt := range tests {
		p := tt.subType.Policy()
		if p.MaxDevices != tt.maxDevices {
			t.Errorf("%s MaxDevices = %d, want %d", tt.subType, p.MaxDevices, tt.maxDevices)
		}
		if p.DefaultRenewalDays != tt.days {
			t.Errorf("%s DefaultRenewalDays = %d, want %d", tt.subType, p.DefaultRenewalDays, tt.days)
		}
		switch {
		case tt.limit < 0 && p.DefaultDataLimit != nil:
			t.Errorf("%s DefaultDataLimit = %d, want unlimited", tt.subType, *p.DefaultDataLimit)
		case tt.limit >= 0 && (p.DefaultDataLimit == nil || *p.DefaultDataLimit != tt.limit):
			t.Errorf("%s DefaultDataLimit mismatch, want %d", tt.subType, tt.limit)
		}
	}
}

func TestSubscriptionType_PolicyIsCopied(t *testing.T) {
	p := TypeBasic.Policy()
	*p.DefaultDataLimit = 1

	if got := *TypeBasic.Policy().DefaultDataLimit; got != 100*gib {
		t.Errorf("policy was mutated through returned pointer: %d", got)
	}
}
