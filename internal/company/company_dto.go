package company

type CompanyResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	IsActive           bool    `json:"is_active"`
	SubscriptionStatus string  `json:"subscription_status"`
	SubscriptionEndsAt *string `json:"subscription_ends_at,omitempty"`
	SubscriptionActive bool    `json:"subscription_active"`
}

type UpdateCompanyRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

type UpdateSubscriptionRequest struct {
	Status string  `json:"status" binding:"required,oneof=TRIAL ACTIVE EXPIRED CANCELLED"`
	EndsAt *string `json:"ends_at"`
}
