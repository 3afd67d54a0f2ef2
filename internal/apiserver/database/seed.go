package database

import (
	"context"
	"fmt"
	"io"

	"github.com/palko-app/rentmanager/internal/common/config"

	"golang.org/x/crypto/bcrypt"
)

// SeedInitialData ensures the fixed catalog of utility types, meter
// types and system settings exists, creating rows only when absent. A
// status line per row is written to out. Re-running is safe.
func SeedInitialData(ctx context.Context, db Database, superAdmin config.SuperAdminConfig, out io.Writer) error {
	utilityTypes := []UtilityType{
		{Name: "Electricity", Description: "Electricity bills", IsActive: true},
		{Name: "Gas", Description: "Natural gas bills", IsActive: true},
		{Name: "Water", Description: "Water and sewage bills", IsActive: true},
		{Name: "Internet", Description: "Internet service bills", IsActive: true},
		{Name: "Condominio", Description: "Condominium maintenance fees", IsActive: true},
	}

	for i := range utilityTypes {
		ut := utilityTypes[i]
		_, err := db.GetUtilityTypeByName(ctx, ut.Name)
		switch {
		case err == nil:
			fmt.Fprintf(out, "Utility type already exists: %s\n", ut.Name)
		case IsNotFound(err):
			if err := db.CreateUtilityType(ctx, &ut); err != nil {
				return fmt.Errorf("create utility type %s: %w", ut.Name, err)
			}
			fmt.Fprintf(out, "Created utility type: %s\n", ut.Name)
		default:
			return err
		}
	}

	meterTypes := []MeterType{
		{Name: "Electricity", Unit: "kWh", ReadingDayStart: 25, ReadingDayEnd: 5, IsActive: true},
		{Name: "Gas", Unit: "m³", ReadingDayStart: 20, ReadingDayEnd: 10, IsActive: true},
		{Name: "Water", Unit: "m³", ReadingDayStart: 15, ReadingDayEnd: 5, IsActive: true},
	}

	for i := range meterTypes {
		mt := meterTypes[i]
		_, err := db.GetMeterTypeByName(ctx, mt.Name)
		switch {
		case err == nil:
			fmt.Fprintf(out, "Meter type already exists: %s\n", mt.Name)
		case IsNotFound(err):
			if err := db.CreateMeterType(ctx, &mt); err != nil {
				return fmt.Errorf("create meter type %s: %w", mt.Name, err)
			}
			fmt.Fprintf(out, "Created meter type: %s (%d-%d)\n", mt.Name, mt.ReadingDayStart, mt.ReadingDayEnd)
		default:
			return err
		}
	}

	settings := []SystemSetting{
		{
			Key:         "bnr_exchange_rate_url",
			Value:       "https://www.bnr.ro/nbrfxrates.xml",
			Description: "BNR XML feed URL for exchange rates",
		},
		{
			Key:         "default_exchange_rate",
			Value:       "5.00",
			Description: "Default EUR to RON exchange rate when BNR is unavailable",
		},
		{
			Key:         "meter_reading_notification_days",
			Value:       "3",
			Description: "Days before reading period ends to send notification",
		},
	}

	for i := range settings {
		st := settings[i]
		_, err := db.GetSetting(ctx, st.Key)
		switch {
		case err == nil:
			fmt.Fprintf(out, "System setting already exists: %s\n", st.Key)
		case IsNotFound(err):
			if err := db.UpsertSetting(ctx, &st); err != nil {
				return fmt.Errorf("create system setting %s: %w", st.Key, err)
			}
			fmt.Fprintf(out, "Created system setting: %s\n", st.Key)
		default:
			return err
		}
	}

	if superAdmin.Username != "" {
		_, err := db.GetUserByUsername(ctx, superAdmin.Username)
		switch {
		case err == nil:
			fmt.Fprintf(out, "Admin user already exists: %s\n", superAdmin.Username)
		case IsNotFound(err):
			hashed, err := bcrypt.GenerateFromPassword([]byte(superAdmin.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			admin := &User{
				Username: superAdmin.Username,
				Password: string(hashed),
				Role:     RoleAdmin,
				IsActive: true,
			}
			if err := db.CreateUser(ctx, admin); err != nil {
				return fmt.Errorf("create admin user: %w", err)
			}
			fmt.Fprintf(out, "Created admin user: %s\n", superAdmin.Username)
		default:
			return err
		}
	}

	return nil
}
