package service

import (
	"context"
	"testing"
	"time"

	"github.com/palko-app/rentmanager/internal/apiserver/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUtilityType(t *testing.T, db database.Database, name string) *database.UtilityType {
	t.Helper()
	ut := &database.UtilityType{Name: name, IsActive: true}
	require.NoError(t, db.CreateUtilityType(context.Background(), ut))
	return ut
}

func createBill(t *testing.T, db database.Database, tenantID, utilityTypeID uint, due time.Time, status database.BillStatus) *database.UtilityBill {
	t.Helper()
	bill := &database.UtilityBill{
		UtilityTypeID: utilityTypeID,
		TenantID:      tenantID,
		Amount:        decimal.RequireFromString("100.00"),
		DueDate:       due,
		BillDate:      due.AddDate(0, 0, -14),
		Status:        status,
	}
	require.NoError(t, db.CreateBill(context.Background(), bill))
	return bill
}

func TestBillingService_GroupBills(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "maria")
	ut := createUtilityType(t, db, "Electricity")
	svc := NewBillingService(db, time.UTC)

	base := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		createBill(t, db, tenant.ID, ut.ID, base.AddDate(0, i, 0), database.BillUnpaid)
	}
	for i := 0; i < 2; i++ {
		createBill(t, db, tenant.ID, ut.ID, base.AddDate(0, -1-i, 0), database.BillOverdue)
	}
	for i := 0; i < 12; i++ {
		createBill(t, db, tenant.ID, ut.ID, base.AddDate(-1, i, 0), database.BillPaid)
	}

	groups, err := svc.GroupBills(context.Background(), tenant.ID)
	require.NoError(t, err)

	// unpaid and overdue are complete and ascending by due date
	if assert.Len(t, groups.Unpaid, 3) {
		assert.True(t, groups.Unpaid[0].DueDate.Before(groups.Unpaid[2].DueDate))
	}
	if assert.Len(t, groups.Overdue, 2) {
		assert.True(t, groups.Overdue[0].DueDate.Before(groups.Overdue[1].DueDate))
	}

	// paid is capped at the most recent ten
	if assert.Len(t, groups.Paid, 10) {
		assert.True(t, groups.Paid[0].DueDate.After(groups.Paid[9].DueDate))
		// the two oldest paid bills fall off
		oldest := time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC)
		for _, bill := range groups.Paid {
			assert.True(t, bill.DueDate.UTC().After(oldest.AddDate(0, 1, 0)))
		}
	}
}

func TestBillingService_RentStatus(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "maria")
	svc := NewBillingService(db, time.UTC)
	ctx := context.Background()

	// no active agreement
	_, err := svc.RentStatus(ctx, tenant.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	agreement := &database.RentAgreement{
		TenantID:       tenant.ID,
		MonthlyRentEUR: decimal.RequireFromString("350.00"),
		StartDate:      time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
	require.NoError(t, db.CreateAgreement(ctx, agreement))

	now := time.Now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 5, 0, 0, 0, 0, time.UTC)
	mkPayment := func(due time.Time, status database.PaymentStatus) {
		require.NoError(t, db.CreatePayment(ctx, &database.RentPayment{
			AgreementID:  agreement.ID,
			AmountEUR:    decimal.RequireFromString("350.00"),
			AmountRON:    decimal.RequireFromString("1750.00"),
			ExchangeRate: decimal.RequireFromString("5.0000"),
			DueDate:      due,
			Status:       status,
		}))
	}
	for i := 1; i <= 7; i++ {
		mkPayment(thisMonth.AddDate(0, -i, 0), database.PaymentPaid)
	}
	mkPayment(thisMonth, database.PaymentPending)

	status, err := svc.RentStatus(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, agreement.ID, status.Agreement.ID)
	if assert.NotNil(t, status.CurrentMonthPayment) {
		assert.Equal(t, thisMonth, status.CurrentMonthPayment.DueDate.UTC())
	}
	// history is capped at the five most recent, newest first
	if assert.Len(t, status.Payments, 5) {
		assert.Equal(t, thisMonth, status.Payments[0].DueDate.UTC())
		assert.Equal(t, thisMonth.AddDate(0, -4, 0), status.Payments[4].DueDate.UTC())
	}
}

func TestBillingService_Dashboard(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "maria")
	ut := createUtilityType(t, db, "Gas")
	svc := NewBillingService(db, time.UTC)
	ctx := context.Background()

	// a tenant without an agreement still gets a dashboard
	d, err := svc.Dashboard(ctx, tenant)
	require.NoError(t, err)
	assert.Nil(t, d.Agreement)
	assert.Zero(t, d.PendingBillCount)

	agreement := &database.RentAgreement{
		TenantID:       tenant.ID,
		MonthlyRentEUR: decimal.RequireFromString("400.00"),
		StartDate:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
	require.NoError(t, db.CreateAgreement(ctx, agreement))

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		createBill(t, db, tenant.ID, ut.ID, base.AddDate(0, 0, i), database.BillUnpaid)
	}
	createBill(t, db, tenant.ID, ut.ID, base.AddDate(0, 0, -10), database.BillOverdue)
	createBill(t, db, tenant.ID, ut.ID, base.AddDate(0, 0, -30), database.BillPaid)

	d, err = svc.Dashboard(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, agreement.ID, d.Agreement.ID)
	// unpaid and overdue count toward pending, paid does not
	assert.Equal(t, int64(8), d.PendingBillCount)
	// upcoming is capped and ascending, starting with the overdue bill
	if assert.Len(t, d.UpcomingBills, 5) {
		assert.Equal(t, base.AddDate(0, 0, -10), d.UpcomingBills[0].DueDate.UTC())
	}
}
