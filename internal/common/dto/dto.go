// Package dto defines the request and response payloads of the API.
package dto

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserInfo is the public view of a logged-in user
type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// ChangePasswordRequest is the password change payload
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePasswordResponse reports the outcome of a password change
type ChangePasswordResponse struct {
	Success bool `json:"success"`
}

// TenantProfileRequest is the embedded tenant profile on user provisioning
type TenantProfileRequest struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateUserRequest provisions a user account, optionally with a tenant
// profile. A profile forces the tenant role on the account.
type CreateUserRequest struct {
	Username string                `json:"username" binding:"required"`
	Password string                `json:"password" binding:"required"`
	FullName string                `json:"fullName"`
	Email    string                `json:"email"`
	Role     string                `json:"role"`
	Tenant   *TenantProfileRequest `json:"tenant,omitempty"`
}

// UpdateUserRequest updates mutable account fields
type UpdateUserRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// UpdateTenantRequest updates a tenant profile
type UpdateTenantRequest struct {
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// AgreementRequest creates or updates a rent agreement
type AgreementRequest struct {
	TenantID       uint   `json:"tenantId"`
	MonthlyRentEUR string `json:"monthlyRentEur" binding:"required"`
	StartDate      string `json:"startDate" binding:"required"` // 2006-01-02
	EndDate        string `json:"endDate"`
	IsActive       *bool  `json:"isActive,omitempty"`
}

// PaymentRequest creates or updates a rent payment
type PaymentRequest struct {
	AgreementID  uint   `json:"agreementId"`
	AmountEUR    string `json:"amountEur" binding:"required"`
	AmountRON    string `json:"amountRon" binding:"required"`
	ExchangeRate string `json:"exchangeRate" binding:"required"`
	DueDate      string `json:"dueDate" binding:"required"`
	PaymentDate  string `json:"paymentDate"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

// UtilityTypeRequest creates or updates a utility type
type UtilityTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// BillRequest creates or updates a utility bill
type BillRequest struct {
	UtilityTypeID uint   `json:"utilityTypeId"`
	TenantID      uint   `json:"tenantId"`
	Amount        string `json:"amount" binding:"required"`
	DueDate       string `json:"dueDate" binding:"required"`
	BillDate      string `json:"billDate"`
	Status        string `json:"status"`
	InvoiceNumber string `json:"invoiceNumber"`
	PaidOn        string `json:"paidOn"`
	Notes         string `json:"notes"`
}

// MeterTypeRequest creates or updates a meter type
type MeterTypeRequest struct {
	Name            string `json:"name" binding:"required"`
	Unit            string `json:"unit" binding:"required"`
	ReadingDayStart int    `json:"readingDayStart" binding:"required"`
	ReadingDayEnd   int    `json:"readingDayEnd" binding:"required"`
	IsActive        *bool  `json:"isActive,omitempty"`
}

// SettingRequest upserts a system setting
type SettingRequest struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

// SubmitReadingRequest is the tenant's meter reading submission
type SubmitReadingRequest struct {
	MeterTypeID  uint   `json:"meterTypeId" binding:"required"`
	ReadingValue string `json:"readingValue" binding:"required"`
	Notes        string `json:"notes"`
}

// SubmitReadingResponse reports the submission outcome alongside the
// refreshed meter overview, which the portal always re-displays.
type SubmitReadingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
