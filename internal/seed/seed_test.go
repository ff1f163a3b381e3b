package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/repositories/inmem"
	"github.com/yigit/uniportal/internal/pkg/auth"
)

func TestCreateDefaultData_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := inmem.NewStore()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	opts := Options{AdminEmail: " Admin@Uni.edu ", AdminPassword: "Admin12345", EnrollmentOpen: true, MaxCreditHours: 18}

	require.NoError(t, CreateDefaultData(ctx, store.Repositories, hasher, opts, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, store.Repositories, hasher, opts, zerolog.Nop()))

	admin, err := store.Users.GetByEmail(ctx, "admin@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.True(t, hasher.Verify(admin.Password, "Admin12345"))

	users, total, err := store.Users.List(ctx, models.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, users, 1)

	settings, err := store.Settings.Get(ctx)
	require.NoError(t, err)
	assert.True(t, settings.EnrollmentOpen)
	assert.Equal(t, 18, settings.MaxCreditHours)
}

func TestCreateDefaultData_KeepsStoredSettings(t *testing.T) {
	ctx := context.Background()
	store, _ := inmem.NewStore()
	require.NoError(t, store.Settings.Save(ctx, &models.Settings{MaintenanceMode: true, MaxCreditHours: 12}))

	err := CreateDefaultData(ctx, store.Repositories, auth.NewPasswordHasher(bcrypt.MinCost),
		Options{EnrollmentOpen: true, MaxCreditHours: 21}, zerolog.Nop())
	require.NoError(t, err)

	settings, err := store.Settings.Get(ctx)
	require.NoError(t, err)
	assert.True(t, settings.MaintenanceMode)
	assert.Equal(t, 12, settings.MaxCreditHours)

	_, total, err := store.Users.List(ctx, models.UserFilter{})
	require.NoError(t, err)
	assert.Zero(t, total, "no admin without configured credentials")
}
