package service

import (
	"context"
	"fmt"
	"time"

	"github.com/palko-app/rentmanager/internal/apiserver/database"
	"github.com/palko-app/rentmanager/internal/notifier"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReadingService implements the meter reading submission workflow and
// the tenant-facing meter overview.
type ReadingService struct {
	db         database.Database
	notifier   notifier.Notifier
	adminEmail string
	loc        *time.Location
	logger     *zap.Logger
}

// NewReadingService creates a new ReadingService. loc is the time zone
// in which "today" is computed for reading dates.
func NewReadingService(db database.Database, n notifier.Notifier, adminEmail string, loc *time.Location, logger *zap.Logger) *ReadingService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReadingService{
		db:         db,
		notifier:   n,
		adminEmail: adminEmail,
		loc:        loc,
		logger:     logger,
	}
}

// Submit validates and persists a meter reading for the tenant. The
// reading date is always the current date in the configured time zone;
// it is never client-supplied. Returns ErrNotFound for a missing or
// inactive meter type, ErrInvalidInput for an unparseable or negative
// value and ErrDuplicateSubmission when a reading already exists for
// today. The admin notification is fire-and-forget: its failure never
// affects the persisted reading.
func (s *ReadingService) Submit(ctx context.Context, tenant *database.Tenant, meterTypeID uint, rawValue, notes string) (*database.MeterReading, error) {
	meterType, err := s.db.GetActiveMeterType(ctx, meterTypeID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("meter type %d: %w", meterTypeID, ErrNotFound)
		}
		return nil, err
	}

	value, err := decimal.NewFromString(rawValue)
	if err != nil || value.IsNegative() {
		return nil, fmt.Errorf("reading value %q: %w", rawValue, ErrInvalidInput)
	}

	readingDate := DateOnly(time.Now().In(s.loc))

	// Early exit; the unique index is the authoritative guard below.
	exists, err := s.db.ReadingExists(ctx, meterType.ID, tenant.ID, readingDate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%s reading for %s: %w", meterType.Name, readingDate.Format("2006-01-02"), ErrDuplicateSubmission)
	}

	reading := &database.MeterReading{
		MeterTypeID:  meterType.ID,
		TenantID:     tenant.ID,
		ReadingValue: value,
		ReadingDate:  readingDate,
		Notes:        notes,
		IsProcessed:  false,
	}
	if err := s.db.CreateReading(ctx, reading); err != nil {
		// A concurrent identical submission loses the insert race; the
		// constraint violation is the same outcome as the early exit.
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s reading for %s: %w", meterType.Name, readingDate.Format("2006-01-02"), ErrDuplicateSubmission)
		}
		return nil, err
	}

	s.notifyAdmin(tenant, meterType, value)

	return reading, nil
}

// notifyAdmin dispatches the new-reading email without awaiting the
// outcome. Failures are logged and dropped.
func (s *ReadingService) notifyAdmin(tenant *database.Tenant, meterType *database.MeterType, value decimal.Decimal) {
	if s.notifier == nil || s.adminEmail == "" {
		return
	}

	tenantName := fmt.Sprintf("tenant #%d", tenant.ID)
	if tenant.User != nil && tenant.User.FullName != "" {
		tenantName = tenant.User.FullName
	}

	msg := notifier.Message{
		Subject:    fmt.Sprintf("New Meter Reading Submitted - %s", meterType.Name),
		Body:       fmt.Sprintf("Tenant %s has submitted a new %s reading: %s %s", tenantName, meterType.Name, value.String(), meterType.Unit),
		Recipients: []string{s.adminEmail},
	}

	go func() {
		if err := s.notifier.Send(context.Background(), msg); err != nil {
			s.logger.Warn("failed to send meter reading notification",
				zap.String("meter_type", meterType.Name),
				zap.Error(err))
		}
	}()
}

// MeterStatus pairs a meter type with the tenant's latest reading and
// whether today falls inside the reading window.
type MeterStatus struct {
	MeterType     *database.MeterType     `json:"meterType"`
	LatestReading *database.MeterReading  `json:"latestReading,omitempty"`
	InPeriod      bool                    `json:"inPeriod"`
}

// Overview returns the tenant's view of all active meter types with
// their latest readings and current-period flags.
func (s *ReadingService) Overview(ctx context.Context, tenant *database.Tenant) ([]*MeterStatus, error) {
	meterTypes, err := s.db.ListMeterTypes(ctx, true)
	if err != nil {
		return nil, err
	}

	today := time.Now().In(s.loc)
	statuses := make([]*MeterStatus, 0, len(meterTypes))
	for _, mt := range meterTypes {
		latest, err := s.db.LatestReading(ctx, tenant.ID, mt.ID)
		if err != nil && !database.IsNotFound(err) {
			return nil, err
		}
		statuses = append(statuses, &MeterStatus{
			MeterType:     mt,
			LatestReading: latest,
			InPeriod:      MeterInPeriod(mt, today),
		})
	}
	return statuses, nil
}
