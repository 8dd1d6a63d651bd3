package models

// Plan is a donation tier shown on the donate page. Plans are fixed in code; a
// subscription records the amount actually pledged.
type Plan struct {
	Type        SubscriptionType `json:"type"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount"`
	Currency    string           `json:"currency"`
}

// Plans returns the public donation tiers.
func Plans() []Plan {
	return []Plan{
		{Type: SubscriptionMonthly, Name: "Monthly Supporter", Description: "Fund one mentoring session every month.", Amount: 25, Currency: "USD"},
		{Type: SubscriptionYearly, Name: "Annual Champion", Description: "Sponsor a mentee's full program year.", Amount: 250, Currency: "USD"},
		{Type: SubscriptionLifetime, Name: "Founding Patron", Description: "A one-time gift toward the program endowment.", Amount: 1000, Currency: "USD"},
	}
}
