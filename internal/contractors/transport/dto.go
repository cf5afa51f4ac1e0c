package transport

// CreateContractorRequest onboards a contractor from the admin dashboard.
type CreateContractorRequest struct {
	CompanyName       string   `json:"companyName" validate:"required,min=1,max=200"`
	ContactName       string   `json:"contactName" validate:"required,min=1,max=200"`
	Email             string   `json:"email" validate:"required,email"`
	Phone             string   `json:"phone" validate:"required,min=7,max=20"`
	NotificationEmail *string  `json:"notificationEmail,omitempty" validate:"omitempty,email"`
	NotificationPhone *string  `json:"notificationPhone,omitempty" validate:"omitempty,min=7,max=20"`
	Services          []string `json:"services" validate:"required,min=1,dive,required"`
	ServiceZips       []string `json:"serviceZips" validate:"required,min=1,dive,len=5,numeric"`
	City              string   `json:"city" validate:"required,max=100"`
	State             string   `json:"state" validate:"required,len=2"`
	Zip               string   `json:"zip" validate:"required,len=5,numeric"`
	MaxLeadsPerDay    int      `json:"maxLeadsPerDay" validate:"required,min=1,max=100"`
	MaxLeadsPerMonth  *int     `json:"maxLeadsPerMonth,omitempty" validate:"omitempty,min=1,max=2000"`
}

// UpdateContractorStatusRequest changes a contractor's lifecycle status.
type UpdateContractorStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active paused churned"`
}
