package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/palko-app/rentmanager/internal/apiserver/database"
	"github.com/palko-app/rentmanager/internal/common/config"
	"github.com/palko-app/rentmanager/internal/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) database.Database {
	t.Helper()
	cfg := &config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"}
	db, err := database.NewDatabase(cfg)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createTestTenant(t *testing.T, db database.Database, username string) *database.Tenant {
	t.Helper()
	ctx := context.Background()
	user := &database.User{Username: username, Password: "hash", FullName: "Test " + username, Role: database.RoleTenant, IsActive: true}
	require.NoError(t, db.CreateUser(ctx, user))
	tenant := &database.Tenant{UserID: user.ID, IsActive: true}
	require.NoError(t, db.CreateTenant(ctx, tenant))
	tenant.User = user
	return tenant
}

func createMeterType(t *testing.T, db database.Database, name string, startDay, endDay int, active bool) *database.MeterType {
	t.Helper()
	mt := &database.MeterType{Name: name, Unit: "kWh", ReadingDayStart: startDay, ReadingDayEnd: endDay, IsActive: active}
	require.NoError(t, db.CreateMeterType(context.Background(), mt))
	return mt
}

// recordingNotifier captures the first sent message
type recordingNotifier struct {
	sent chan notifier.Message
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan notifier.Message, 1)}
}

func (r *recordingNotifier) Send(_ context.Context, msg notifier.Message) error {
	r.sent <- msg
	return nil
}

// failingNotifier always errors
type failingNotifier struct{}

func (failingNotifier) Send(context.Context, notifier.Message) error {
	return errors.New("smtp down")
}

func TestReadingService_Submit(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "maria")
	mt := createMeterType(t, db, "Electricity", 1, 31, true)
	rec := newRecordingNotifier()
	svc := NewReadingService(db, rec, "admin@example.com", time.UTC, zap.NewNop())

	reading, err := svc.Submit(context.Background(), tenant, mt.ID, "1234.56", "moved in")
	require.NoError(t, err)
	assert.Equal(t, DateOnly(time.Now().UTC()), reading.ReadingDate)
	assert.False(t, reading.IsProcessed)
	assert.Equal(t, "moved in", reading.Notes)

	select {
	case msg := <-rec.sent:
		assert.Contains(t, msg.Subject, "Electricity")
		assert.Contains(t, msg.Body, "Test maria")
		assert.Equal(t, []string{"admin@example.com"}, msg.Recipients)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification")
	}
}

func TestReadingService_SubmitDuplicate(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "maria")
	mt := createMeterType(t, db, "Electricity", 1, 31, true)
	svc := NewReadingService(db, nil, "", time.UTC, zap.NewNop())

	_, err := svc.Submit(context.Background(), tenant, mt.ID, "100", "")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), tenant, mt.ID, "101", "")
	assert.ErrorIs(t, err, ErrDuplicateSubmission)

	readings, err := db.ListReadingsByTenant(context.Background(), tenant.ID, 0)
	assert.NoError(t, err)
	assert.Len(t, readings, 1)
	assert.Equal(t, "100", readings[0].ReadingValue.String())
}

func TestReadingService_SubmitInvalidValue(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "maria")
	mt := createMeterType(t, db, "Electricity", 1, 31, true)
	svc := NewReadingService(db, nil, "", time.UTC, zap.NewNop())

	for _, raw := range []string{"abc", "", "-1", "-0.01"} {
		_, err := svc.Submit(context.Background(), tenant, mt.ID, raw, "")
		assert.ErrorIs(t, err, ErrInvalidInput, "value %q", raw)
	}

	readings, err := db.ListReadingsByTenant(context.Background(), tenant.ID, 0)
	assert.NoError(t, err)
	assert.Empty(t, readings)
}

func TestReadingService_SubmitUnknownOrInactiveMeter(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "maria")
	inactive := createMeterType(t, db, "Gas", 1, 31, false)
	svc := NewReadingService(db, nil, "", time.UTC, zap.NewNop())

	_, err := svc.Submit(context.Background(), tenant, 999, "10", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Submit(context.Background(), tenant, inactive.ID, "10", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadingService_NotificationFailureIsSwallowed(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "maria")
	mt := createMeterType(t, db, "Electricity", 1, 31, true)
	svc := NewReadingService(db, failingNotifier{}, "admin@example.com", time.UTC, zap.NewNop())

	reading, err := svc.Submit(context.Background(), tenant, mt.ID, "42", "")
	require.NoError(t, err)
	assert.NotZero(t, reading.ID)
}

func TestReadingService_Overview(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "maria")
	withReading := createMeterType(t, db, "Electricity", 1, 31, true)
	empty := createMeterType(t, db, "Water", 1, 31, true)
	createMeterType(t, db, "Gas", 1, 31, false) // inactive, hidden
	svc := NewReadingService(db, nil, "", time.UTC, zap.NewNop())

	_, err := svc.Submit(context.Background(), tenant, withReading.ID, "500", "")
	require.NoError(t, err)

	statuses, err := svc.Overview(context.Background(), tenant)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byName := map[string]*MeterStatus{}
	for _, st := range statuses {
		byName[st.MeterType.Name] = st
	}
	if assert.NotNil(t, byName["Electricity"].LatestReading) {
		assert.Equal(t, "500", byName["Electricity"].LatestReading.ReadingValue.String())
	}
	assert.True(t, byName["Electricity"].InPeriod)
	assert.Nil(t, byName[empty.Name].LatestReading)
}
