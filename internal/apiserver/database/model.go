package database

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole represents the role of a user
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleTenant UserRole = "tenant"
)

// User represents a login account. Administrators manage the back-office;
// tenant accounts own exactly one Tenant profile.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"type:varchar(50);uniqueIndex"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash, never exposed in JSON
	FullName  string    `json:"fullName" gorm:"type:varchar(100)"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	Role      UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'tenant'"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tenant represents the renter profile attached to a user account.
// Tenants are deactivated rather than deleted.
type Tenant struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex;not null"`
	User      *User     `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Phone     string    `json:"phone" gorm:"type:varchar(20)"`
	Address   string    `json:"address" gorm:"type:text"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RentAgreement represents the rent contract for a tenant. A tenant has
// at most one agreement row at a time.
type RentAgreement struct {
	ID             uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	TenantID       uint            `json:"tenantId" gorm:"uniqueIndex;not null"`
	Tenant         *Tenant         `json:"tenant,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	MonthlyRentEUR decimal.Decimal `json:"monthlyRentEur" gorm:"type:decimal(10,2);not null"`
	StartDate      time.Time       `json:"startDate" gorm:"type:date;not null"`
	EndDate        *time.Time      `json:"endDate,omitempty" gorm:"type:date"`
	IsActive       bool            `json:"isActive" gorm:"not null;default:true"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// PaymentStatus represents the state of a rent payment
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// RentPayment represents a monthly rent payment in both currencies.
// AmountRON is not validated against AmountEUR times ExchangeRate at
// write time; the administrator records both as invoiced.
type RentPayment struct {
	ID           uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	AgreementID  uint            `json:"agreementId" gorm:"index;not null"`
	Agreement    *RentAgreement  `json:"agreement,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	AmountEUR    decimal.Decimal `json:"amountEur" gorm:"type:decimal(10,2);not null"`
	AmountRON    decimal.Decimal `json:"amountRon" gorm:"type:decimal(10,2);not null"`
	ExchangeRate decimal.Decimal `json:"exchangeRate" gorm:"type:decimal(6,4);not null"`
	DueDate      time.Time       `json:"dueDate" gorm:"type:date;not null;index"`
	PaymentDate  *time.Time      `json:"paymentDate,omitempty" gorm:"type:date"`
	Status       PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Notes        string          `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// UtilityType is a catalog entity (electricity, gas, water, internet...)
type UtilityType struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(100);uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BillStatus represents the state of a utility bill
type BillStatus string

const (
	BillUnpaid  BillStatus = "unpaid"
	BillPaid    BillStatus = "paid"
	BillOverdue BillStatus = "overdue"
)

// UtilityBill represents a bill issued to a tenant. Status transitions
// are made by an administrator; there is no automatic overdue rollover.
type UtilityBill struct {
	ID            uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	UtilityTypeID uint            `json:"utilityTypeId" gorm:"index;not null"`
	UtilityType   *UtilityType    `json:"utilityType,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	TenantID      uint            `json:"tenantId" gorm:"index;not null"`
	Tenant        *Tenant         `json:"tenant,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	DueDate       time.Time       `json:"dueDate" gorm:"type:date;not null;index"`
	BillDate      time.Time       `json:"billDate" gorm:"type:date;not null"`
	Status        BillStatus      `json:"status" gorm:"type:varchar(20);not null;default:'unpaid'"`
	FileKey       string          `json:"-" gorm:"type:varchar(255)"` // opaque blob store reference
	InvoiceNumber string          `json:"invoiceNumber" gorm:"type:varchar(100)"`
	PaidOn        *time.Time      `json:"paidOn,omitempty" gorm:"type:date"`
	Notes         string          `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// HasFile reports whether a bill has an attachment in the blob store
func (b *UtilityBill) HasFile() bool {
	return b.FileKey != ""
}

// MeterType is a catalog entity defining the recurring day-of-month
// window in which tenants may submit readings. The window may wrap the
// month boundary (e.g. 25 through 5).
type MeterType struct {
	ID              uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string    `json:"name" gorm:"type:varchar(100);uniqueIndex"`
	Unit            string    `json:"unit" gorm:"type:varchar(20)"` // kWh, m³, ...
	ReadingDayStart int       `json:"readingDayStart" gorm:"not null;check:reading_day_start BETWEEN 1 AND 31"`
	ReadingDayEnd   int       `json:"readingDayEnd" gorm:"not null;check:reading_day_end BETWEEN 1 AND 31"`
	IsActive        bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// MeterReading represents a reading submitted by a tenant. At most one
// reading per tenant per meter type per calendar day.
type MeterReading struct {
	ID           uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	MeterTypeID  uint            `json:"meterTypeId" gorm:"not null;uniqueIndex:idx_reading_per_day"`
	MeterType    *MeterType      `json:"meterType,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	TenantID     uint            `json:"tenantId" gorm:"not null;uniqueIndex:idx_reading_per_day"`
	Tenant       *Tenant         `json:"tenant,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	ReadingValue decimal.Decimal `json:"readingValue" gorm:"type:decimal(10,2);not null"`
	ReadingDate  time.Time       `json:"readingDate" gorm:"type:date;not null;uniqueIndex:idx_reading_per_day"`
	Notes        string          `json:"notes" gorm:"type:text"`
	IsProcessed  bool            `json:"isProcessed" gorm:"not null;default:false"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// SystemSetting is a key-value configuration row, mutated only by
// administrators and read by external jobs (exchange rate polling,
// notification lead time).
type SystemSetting struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Key         string    `json:"key" gorm:"column:setting_key;type:varchar(100);uniqueIndex"`
	Value       string    `json:"value" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
