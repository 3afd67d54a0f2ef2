package database

import (
	"context"
	"time"
)

// Database defines the methods for database operations.
type Database interface {
	// Close closes the database connection.
	Close() error

	// Transaction runs fn inside a transaction carried by the context.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id uint) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id uint) error
	ListUsers(ctx context.Context) ([]*User, error)

	// Tenants
	CreateTenant(ctx context.Context, tenant *Tenant) error
	GetTenantByID(ctx context.Context, id uint) (*Tenant, error)
	GetTenantByUserID(ctx context.Context, userID uint) (*Tenant, error)
	UpdateTenant(ctx context.Context, tenant *Tenant) error
	ListTenants(ctx context.Context) ([]*Tenant, error)

	// Rent agreements
	CreateAgreement(ctx context.Context, agreement *RentAgreement) error
	GetAgreementByID(ctx context.Context, id uint) (*RentAgreement, error)
	GetActiveAgreement(ctx context.Context, tenantID uint) (*RentAgreement, error)
	UpdateAgreement(ctx context.Context, agreement *RentAgreement) error
	DeleteAgreement(ctx context.Context, id uint) error
	ListAgreements(ctx context.Context) ([]*RentAgreement, error)

	// Rent payments
	CreatePayment(ctx context.Context, payment *RentPayment) error
	GetPaymentByID(ctx context.Context, id uint) (*RentPayment, error)
	UpdatePayment(ctx context.Context, payment *RentPayment) error
	DeletePayment(ctx context.Context, id uint) error
	// ListPayments returns payments for an agreement ordered by due date
	// descending. limit <= 0 means no limit.
	ListPayments(ctx context.Context, agreementID uint, limit int) ([]*RentPayment, error)
	// GetPaymentInRange returns the first payment whose due date falls in
	// [from, to).
	GetPaymentInRange(ctx context.Context, agreementID uint, from, to time.Time) (*RentPayment, error)

	// Utility types
	CreateUtilityType(ctx context.Context, ut *UtilityType) error
	GetUtilityTypeByID(ctx context.Context, id uint) (*UtilityType, error)
	GetUtilityTypeByName(ctx context.Context, name string) (*UtilityType, error)
	UpdateUtilityType(ctx context.Context, ut *UtilityType) error
	DeleteUtilityType(ctx context.Context, id uint) error
	ListUtilityTypes(ctx context.Context, activeOnly bool) ([]*UtilityType, error)

	// Utility bills
	CreateBill(ctx context.Context, bill *UtilityBill) error
	GetBillByID(ctx context.Context, id uint) (*UtilityBill, error)
	// GetBillForTenant returns the bill only if it belongs to the tenant.
	GetBillForTenant(ctx context.Context, id, tenantID uint) (*UtilityBill, error)
	UpdateBill(ctx context.Context, bill *UtilityBill) error
	DeleteBill(ctx context.Context, id uint) error
	ListBills(ctx context.Context) ([]*UtilityBill, error)
	// ListBillsByStatus returns a tenant's bills in the given statuses.
	// orderAsc orders by due date ascending when true, descending when
	// false. limit <= 0 means no limit.
	ListBillsByStatus(ctx context.Context, tenantID uint, statuses []BillStatus, orderAsc bool, limit int) ([]*UtilityBill, error)
	CountBillsByStatus(ctx context.Context, tenantID uint, statuses []BillStatus) (int64, error)

	// Meter types
	CreateMeterType(ctx context.Context, mt *MeterType) error
	GetMeterTypeByID(ctx context.Context, id uint) (*MeterType, error)
	GetMeterTypeByName(ctx context.Context, name string) (*MeterType, error)
	// GetActiveMeterType returns the meter type only if it is active.
	GetActiveMeterType(ctx context.Context, id uint) (*MeterType, error)
	UpdateMeterType(ctx context.Context, mt *MeterType) error
	DeleteMeterType(ctx context.Context, id uint) error
	ListMeterTypes(ctx context.Context, activeOnly bool) ([]*MeterType, error)

	// Meter readings
	CreateReading(ctx context.Context, reading *MeterReading) error
	GetReadingByID(ctx context.Context, id uint) (*MeterReading, error)
	ReadingExists(ctx context.Context, meterTypeID, tenantID uint, date time.Time) (bool, error)
	LatestReading(ctx context.Context, tenantID, meterTypeID uint) (*MeterReading, error)
	// ListReadingsByTenant returns a tenant's readings ordered by reading
	// date descending. limit <= 0 means no limit.
	ListReadingsByTenant(ctx context.Context, tenantID uint, limit int) ([]*MeterReading, error)
	ListReadings(ctx context.Context) ([]*MeterReading, error)
	UpdateReading(ctx context.Context, reading *MeterReading) error

	// System settings
	GetSetting(ctx context.Context, key string) (*SystemSetting, error)
	UpsertSetting(ctx context.Context, setting *SystemSetting) error
	ListSettings(ctx context.Context) ([]*SystemSetting, error)
}
