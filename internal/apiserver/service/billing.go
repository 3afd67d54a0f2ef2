package service

import (
	"context"
	"fmt"
	"time"

	"github.com/palko-app/rentmanager/internal/apiserver/database"
)

const (
	paidBillsLimit      = 10
	recentPaymentsLimit = 5
	upcomingBillsLimit  = 5
	recentReadingsLimit = 3
)

// BillingService provides the read-side projections of bills and rent
// payments shown on the tenant portal.
type BillingService struct {
	db  database.Database
	loc *time.Location
}

// NewBillingService creates a new BillingService
func NewBillingService(db database.Database, loc *time.Location) *BillingService {
	if loc == nil {
		loc = time.UTC
	}
	return &BillingService{db: db, loc: loc}
}

// BillGroups partitions a tenant's utility bills by status
type BillGroups struct {
	Unpaid  []*database.UtilityBill `json:"unpaid"`
	Overdue []*database.UtilityBill `json:"overdue"`
	Paid    []*database.UtilityBill `json:"paid"`
}

// GroupBills returns the tenant's bills grouped by status: unpaid and
// overdue complete and ascending by due date, paid capped at the 10
// most recent by due date.
func (s *BillingService) GroupBills(ctx context.Context, tenantID uint) (*BillGroups, error) {
	unpaid, err := s.db.ListBillsByStatus(ctx, tenantID, []database.BillStatus{database.BillUnpaid}, true, 0)
	if err != nil {
		return nil, err
	}
	overdue, err := s.db.ListBillsByStatus(ctx, tenantID, []database.BillStatus{database.BillOverdue}, true, 0)
	if err != nil {
		return nil, err
	}
	paid, err := s.db.ListBillsByStatus(ctx, tenantID, []database.BillStatus{database.BillPaid}, false, paidBillsLimit)
	if err != nil {
		return nil, err
	}
	return &BillGroups{Unpaid: unpaid, Overdue: overdue, Paid: paid}, nil
}

// RentStatus is the tenant's payment history view
type RentStatus struct {
	Agreement           *database.RentAgreement `json:"agreement"`
	CurrentMonthPayment *database.RentPayment   `json:"currentMonthPayment,omitempty"`
	Payments            []*database.RentPayment `json:"payments"`
}

// RentStatus returns the active agreement, the payment due in the
// current calendar month (if any) and the most recent payments by due
// date. Returns ErrNotFound when the tenant has no active agreement.
func (s *BillingService) RentStatus(ctx context.Context, tenantID uint) (*RentStatus, error) {
	agreement, err := s.db.GetActiveAgreement(ctx, tenantID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("active agreement for tenant %d: %w", tenantID, ErrNotFound)
		}
		return nil, err
	}

	monthStart, nextMonth := currentMonthRange(time.Now().In(s.loc))
	current, err := s.db.GetPaymentInRange(ctx, agreement.ID, monthStart, nextMonth)
	if err != nil && !database.IsNotFound(err) {
		return nil, err
	}

	payments, err := s.db.ListPayments(ctx, agreement.ID, recentPaymentsLimit)
	if err != nil {
		return nil, err
	}

	return &RentStatus{
		Agreement:           agreement,
		CurrentMonthPayment: current,
		Payments:            payments,
	}, nil
}

// Dashboard is the tenant's landing page projection
type Dashboard struct {
	Tenant           *database.Tenant        `json:"tenant"`
	Agreement        *database.RentAgreement `json:"agreement,omitempty"`
	RecentPayments   []*database.RentPayment `json:"recentPayments"`
	PendingBillCount int64                   `json:"pendingBillCount"`
	UpcomingBills    []*database.UtilityBill `json:"upcomingBills"`
	RecentReadings   []*database.MeterReading `json:"recentReadings"`
}

// Dashboard aggregates the tenant's landing page: the active agreement
// with its most recent payments, the count of bills still to pay, the
// next bills by due date and the latest readings. A tenant without an
// agreement still gets a dashboard.
func (s *BillingService) Dashboard(ctx context.Context, tenant *database.Tenant) (*Dashboard, error) {
	d := &Dashboard{Tenant: tenant}

	agreement, err := s.db.GetActiveAgreement(ctx, tenant.ID)
	if err != nil && !database.IsNotFound(err) {
		return nil, err
	}
	if agreement != nil {
		d.Agreement = agreement
		payments, err := s.db.ListPayments(ctx, agreement.ID, recentPaymentsLimit)
		if err != nil {
			return nil, err
		}
		d.RecentPayments = payments
	}

	pending := []database.BillStatus{database.BillUnpaid, database.BillOverdue}
	count, err := s.db.CountBillsByStatus(ctx, tenant.ID, pending)
	if err != nil {
		return nil, err
	}
	d.PendingBillCount = count

	upcoming, err := s.db.ListBillsByStatus(ctx, tenant.ID, pending, true, upcomingBillsLimit)
	if err != nil {
		return nil, err
	}
	d.UpcomingBills = upcoming

	readings, err := s.db.ListReadingsByTenant(ctx, tenant.ID, recentReadingsLimit)
	if err != nil {
		return nil, err
	}
	d.RecentReadings = readings

	return d, nil
}

// currentMonthRange returns [first day of t's month, first day of the
// next month) as date values.
func currentMonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
