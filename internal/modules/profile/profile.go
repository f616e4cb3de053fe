// Package profile stores the demo user's account settings.
package profile

// Subscription is the user's plan
type Subscription struct {
	Plan   string `json:"plan"`
	Status string `json:"status"`
}

// Notifications are the user's delivery toggles
type Notifications struct {
	Email   bool `json:"email"`
	Push    bool `json:"push"`
	Reports bool `json:"reports"`
}

// RiskProfile is the user's self-declared appetite
type RiskProfile struct {
	InvestmentStyle string `json:"investmentStyle"`
	RiskLevel       int    `json:"riskLevel"`
}

// Profile is the full user record served to the settings page
type Profile struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Subscription  Subscription  `json:"subscription"`
	Notifications Notifications `json:"notifications"`
	RiskProfile   RiskProfile   `json:"riskProfile"`
}

// Default returns the seeded demo user
func Default() Profile {
	return Profile{
		Name:  "John Doe",
		Email: "john.doe@example.com",
		Subscription: Subscription{
			Plan:   "Pro",
			Status: "Active",
		},
		Notifications: Notifications{
			Email:   true,
			Push:    false,
			Reports: true,
		},
		RiskProfile: RiskProfile{
			InvestmentStyle: "Moderate",
			RiskLevel:       3,
		},
	}
}
