package database

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/palko-app/rentmanager/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedInitialData(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	superAdmin := config.SuperAdminConfig{Username: "admin", Password: "s3cret"}

	var out bytes.Buffer
	require.NoError(t, SeedInitialData(ctx, db, superAdmin, &out))
	assert.Contains(t, out.String(), "Created utility type: Electricity")
	assert.Contains(t, out.String(), "Created meter type: Electricity (25-5)")
	assert.Contains(t, out.String(), "Created system setting: default_exchange_rate")
	assert.Contains(t, out.String(), "Created admin user: admin")

	utilityTypes, err := db.ListUtilityTypes(ctx, true)
	assert.NoError(t, err)
	assert.Len(t, utilityTypes, 5)

	meterTypes, err := db.ListMeterTypes(ctx, true)
	assert.NoError(t, err)
	assert.Len(t, meterTypes, 3)

	settings, err := db.ListSettings(ctx)
	assert.NoError(t, err)
	assert.Len(t, settings, 3)

	admin, err := db.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("s3cret")))
}

func TestSeedInitialData_Rerun(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	superAdmin := config.SuperAdminConfig{Username: "admin", Password: "s3cret"}

	require.NoError(t, SeedInitialData(ctx, db, superAdmin, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, SeedInitialData(ctx, db, superAdmin, &out))
	assert.NotContains(t, out.String(), "Created")
	assert.Equal(t, 5+3+3+1, strings.Count(out.String(), "already exists"))

	utilityTypes, err := db.ListUtilityTypes(ctx, true)
	assert.NoError(t, err)
	assert.Len(t, utilityTypes, 5)
}
