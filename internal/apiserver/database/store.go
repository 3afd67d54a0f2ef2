package database

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Store implements the Database interface on top of gorm. The driver is
// chosen by the factory; queries are identical across drivers.
type Store struct {
	db *gorm.DB
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn inside a transaction carried by the context
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ContextWithTransaction(ctx, tx))
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return getDBFromContext(ctx, s.db)
}

// ---- Users ----

func (s *Store) CreateUser(ctx context.Context, user *User) error {
	return s.conn(ctx).Create(user).Error
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := s.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *User) error {
	return s.conn(ctx).Save(user).Error
}

func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.conn(ctx).Delete(&User{}, id).Error
}

func (s *Store) ListUsers(ctx context.Context) ([]*User, error) {
	var users []*User
	err := s.conn(ctx).Order("username asc").Find(&users).Error
	return users, err
}

// ---- Tenants ----

func (s *Store) CreateTenant(ctx context.Context, tenant *Tenant) error {
	return s.conn(ctx).Create(tenant).Error
}

func (s *Store) GetTenantByID(ctx context.Context, id uint) (*Tenant, error) {
	var tenant Tenant
	if err := s.conn(ctx).Preload("User").First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *Store) GetTenantByUserID(ctx context.Context, userID uint) (*Tenant, error) {
	var tenant Tenant
	if err := s.conn(ctx).Preload("User").Where("user_id = ?", userID).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *Store) UpdateTenant(ctx context.Context, tenant *Tenant) error {
	return s.conn(ctx).Save(tenant).Error
}

func (s *Store) ListTenants(ctx context.Context) ([]*Tenant, error) {
	var tenants []*Tenant
	err := s.conn(ctx).Preload("User").Order("created_at desc").Find(&tenants).Error
	return tenants, err
}

// ---- Rent agreements ----

func (s *Store) CreateAgreement(ctx context.Context, agreement *RentAgreement) error {
	return s.conn(ctx).Create(agreement).Error
}

func (s *Store) GetAgreementByID(ctx context.Context, id uint) (*RentAgreement, error) {
	var agreement RentAgreement
	if err := s.conn(ctx).Preload("Tenant").First(&agreement, id).Error; err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (s *Store) GetActiveAgreement(ctx context.Context, tenantID uint) (*RentAgreement, error) {
	var agreement RentAgreement
	err := s.conn(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		First(&agreement).Error
	if err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (s *Store) UpdateAgreement(ctx context.Context, agreement *RentAgreement) error {
	return s.conn(ctx).Save(agreement).Error
}

func (s *Store) DeleteAgreement(ctx context.Context, id uint) error {
	return s.conn(ctx).Delete(&RentAgreement{}, id).Error
}

func (s *Store) ListAgreements(ctx context.Context) ([]*RentAgreement, error) {
	var agreements []*RentAgreement
	err := s.conn(ctx).Preload("Tenant").Preload("Tenant.User").
		Order("start_date desc").Find(&agreements).Error
	return agreements, err
}

// ---- Rent payments ----

func (s *Store) CreatePayment(ctx context.Context, payment *RentPayment) error {
	return s.conn(ctx).Create(payment).Error
}

func (s *Store) GetPaymentByID(ctx context.Context, id uint) (*RentPayment, error) {
	var payment RentPayment
	if err := s.conn(ctx).First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *Store) UpdatePayment(ctx context.Context, payment *RentPayment) error {
	return s.conn(ctx).Save(payment).Error
}

func (s *Store) DeletePayment(ctx context.Context, id uint) error {
	return s.conn(ctx).Delete(&RentPayment{}, id).Error
}

func (s *Store) ListPayments(ctx context.Context, agreementID uint, limit int) ([]*RentPayment, error) {
	var payments []*RentPayment
	q := s.conn(ctx).
		Where("agreement_id = ?", agreementID).
		Order("due_date desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&payments).Error
	return payments, err
}

func (s *Store) GetPaymentInRange(ctx context.Context, agreementID uint, from, to time.Time) (*RentPayment, error) {
	var payment RentPayment
	err := s.conn(ctx).
		Where("agreement_id = ? AND due_date >= ? AND due_date < ?", agreementID, from, to).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ---- Utility types ----

func (s *Store) CreateUtilityType(ctx context.Context, ut *UtilityType) error {
	return s.conn(ctx).Create(ut).Error
}

func (s *Store) GetUtilityTypeByID(ctx context.Context, id uint) (*UtilityType, error) {
	var ut UtilityType
	if err := s.conn(ctx).First(&ut, id).Error; err != nil {
		return nil, err
	}
	return &ut, nil
}

func (s *Store) GetUtilityTypeByName(ctx context.Context, name string) (*UtilityType, error) {
	var ut UtilityType
	if err := s.conn(ctx).Where("name = ?", name).First(&ut).Error; err != nil {
		return nil, err
	}
	return &ut, nil
}

func (s *Store) UpdateUtilityType(ctx context.Context, ut *UtilityType) error {
	return s.conn(ctx).Save(ut).Error
}

func (s *Store) DeleteUtilityType(ctx context.Context, id uint) error {
	return s.conn(ctx).Delete(&UtilityType{}, id).Error
}

func (s *Store) ListUtilityTypes(ctx context.Context, activeOnly bool) ([]*UtilityType, error) {
	var types []*UtilityType
	q := s.conn(ctx).Order("name asc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&types).Error
	return types, err
}

// ---- Utility bills ----

func (s *Store) CreateBill(ctx context.Context, bill *UtilityBill) error {
	return s.conn(ctx).Create(bill).Error
}

func (s *Store) GetBillByID(ctx context.Context, id uint) (*UtilityBill, error) {
	var bill UtilityBill
	if err := s.conn(ctx).Preload("UtilityType").First(&bill, id).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (s *Store) GetBillForTenant(ctx context.Context, id, tenantID uint) (*UtilityBill, error) {
	var bill UtilityBill
	err := s.conn(ctx).Preload("UtilityType").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&bill).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (s *Store) UpdateBill(ctx context.Context, bill *UtilityBill) error {
	return s.conn(ctx).Save(bill).Error
}

func (s *Store) DeleteBill(ctx context.Context, id uint) error {
	return s.conn(ctx).Delete(&UtilityBill{}, id).Error
}

func (s *Store) ListBills(ctx context.Context) ([]*UtilityBill, error) {
	var bills []*UtilityBill
	err := s.conn(ctx).Preload("UtilityType").Preload("Tenant").
		Order("due_date desc").Find(&bills).Error
	return bills, err
}

func (s *Store) ListBillsByStatus(ctx context.Context, tenantID uint, statuses []BillStatus, orderAsc bool, limit int) ([]*UtilityBill, error) {
	var bills []*UtilityBill
	order := "due_date desc"
	if orderAsc {
		order = "due_date asc"
	}
	q := s.conn(ctx).Preload("UtilityType").
		Where("tenant_id = ? AND status IN ?", tenantID, statuses).
		Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&bills).Error
	return bills, err
}

func (s *Store) CountBillsByStatus(ctx context.Context, tenantID uint, statuses []BillStatus) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&UtilityBill{}).
		Where("tenant_id = ? AND status IN ?", tenantID, statuses).
		Count(&count).Error
	return count, err
}

// ---- Meter types ----

func (s *Store) CreateMeterType(ctx context.Context, mt *MeterType) error {
	return s.conn(ctx).Create(mt).Error
}

func (s *Store) GetMeterTypeByID(ctx context.Context, id uint) (*MeterType, error) {
	var mt MeterType
	if err := s.conn(ctx).First(&mt, id).Error; err != nil {
		return nil, err
	}
	return &mt, nil
}

func (s *Store) GetMeterTypeByName(ctx context.Context, name string) (*MeterType, error) {
	var mt MeterType
	if err := s.conn(ctx).Where("name = ?", name).First(&mt).Error; err != nil {
		return nil, err
	}
	return &mt, nil
}

func (s *Store) GetActiveMeterType(ctx context.Context, id uint) (*MeterType, error) {
	var mt MeterType
	err := s.conn(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&mt).Error
	if err != nil {
		return nil, err
	}
	return &mt, nil
}

func (s *Store) UpdateMeterType(ctx context.Context, mt *MeterType) error {
	return s.conn(ctx).Save(mt).Error
}

func (s *Store) DeleteMeterType(ctx context.Context, id uint) error {
	return s.conn(ctx).Delete(&MeterType{}, id).Error
}

func (s *Store) ListMeterTypes(ctx context.Context, activeOnly bool) ([]*MeterType, error) {
	var types []*MeterType
	q := s.conn(ctx).Order("name asc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&types).Error
	return types, err
}

// ---- Meter readings ----

func (s *Store) CreateReading(ctx context.Context, reading *MeterReading) error {
	return s.conn(ctx).Create(reading).Error
}

func (s *Store) GetReadingByID(ctx context.Context, id uint) (*MeterReading, error) {
	var reading MeterReading
	if err := s.conn(ctx).Preload("MeterType").First(&reading, id).Error; err != nil {
		return nil, err
	}
	return &reading, nil
}

func (s *Store) ReadingExists(ctx context.Context, meterTypeID, tenantID uint, date time.Time) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&MeterReading{}).
		Where("meter_type_id = ? AND tenant_id = ? AND reading_date = ?", meterTypeID, tenantID, date).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) LatestReading(ctx context.Context, tenantID, meterTypeID uint) (*MeterReading, error) {
	var reading MeterReading
	err := s.conn(ctx).
		Where("tenant_id = ? AND meter_type_id = ?", tenantID, meterTypeID).
		Order("reading_date desc").
		First(&reading).Error
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

func (s *Store) ListReadingsByTenant(ctx context.Context, tenantID uint, limit int) ([]*MeterReading, error) {
	var readings []*MeterReading
	q := s.conn(ctx).Preload("MeterType").
		Where("tenant_id = ?", tenantID).
		Order("reading_date desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&readings).Error
	return readings, err
}

func (s *Store) ListReadings(ctx context.Context) ([]*MeterReading, error) {
	var readings []*MeterReading
	err := s.conn(ctx).Preload("MeterType").Preload("Tenant").
		Order("reading_date desc").Find(&readings).Error
	return readings, err
}

func (s *Store) UpdateReading(ctx context.Context, reading *MeterReading) error {
	return s.conn(ctx).Save(reading).Error
}

// ---- System settings ----

func (s *Store) GetSetting(ctx context.Context, key string) (*SystemSetting, error) {
	var setting SystemSetting
	if err := s.conn(ctx).Where("setting_key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (s *Store) UpsertSetting(ctx context.Context, setting *SystemSetting) error {
	existing, err := s.GetSetting(ctx, setting.Key)
	if err != nil {
		if IsNotFound(err) {
			return s.conn(ctx).Create(setting).Error
		}
		return err
	}
	existing.Value = setting.Value
	if setting.Description != "" {
		existing.Description = setting.Description
	}
	if err := s.conn(ctx).Save(existing).Error; err != nil {
		return err
	}
	*setting = *existing
	return nil
}

func (s *Store) ListSettings(ctx context.Context) ([]*SystemSetting, error) {
	var settings []*SystemSetting
	err := s.conn(ctx).Order("setting_key asc").Find(&settings).Error
	return settings, err
}
