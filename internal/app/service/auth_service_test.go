package service

import (
	"testing"
	"time"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/internal/db"
	"github.com/ktakagi/sensho-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-key"

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(userRepo, testJWTSecret, time.Hour)

	return authService, testDB
}

func registerTestUser(t *testing.T, authService AuthService) *model.User {
	user, _, err := authService.Register(RegisterInput{
		Username: "librarian",
		Email:    "librarian@example.com",
		Password: "password123",
		FullName: "図書 太郎",
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, token, err := authService.Register(RegisterInput{
		Username:     "librarian",
		Email:        "librarian@example.com",
		Password:     "password123",
		FullName:     "図書 太郎",
		Organization: "市立小学校",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, token)

	// The issued token carries the user scope.
	claims, err := util.ValidateToken(token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.SubjectID)
	assert.Equal(t, string(model.ScopeUser), claims.Scope)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)
	registerTestUser(t, authService)

	_, _, err := authService.Register(RegisterInput{
		Username: "librarian",
		Email:    "different@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)
	registerTestUser(t, authService)

	_, _, err := authService.Register(RegisterInput{
		Username: "different",
		Email:    "librarian@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	registered := registerTestUser(t, authService)

	// Login by username.
	user, token, err := authService.Login("librarian", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	// Login by email works too.
	_, _, err = authService.Login("librarian@example.com", "password123")
	assert.NoError(t, err)

	// last_login was stamped.
	var reloaded model.User
	require.NoError(t, testDB.First(&reloaded, registered.ID).Error)
	require.NotNil(t, reloaded.LastLogin)
	assert.WithinDuration(t, time.Now(), *reloaded.LastLogin, time.Minute)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)
	registerTestUser(t, authService)

	_, _, err := authService.Login("librarian", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UpgradesOldHash(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	user := registerTestUser(t, authService)

	// Simulate a hash stored before the cost was raised
	weak, err := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	require.NoError(t, err)
	testDB.Model(&model.User{}).Where("id = ?", user.ID).
		UpdateColumn("password_hash", string(weak))

	_, _, err = authService.Login("librarian", "password123")
	require.NoError(t, err)

	var stored model.User
	require.NoError(t, testDB.First(&stored, user.ID).Error)
	assert.NotEqual(t, string(weak), stored.PasswordHash)
	assert.False(t, util.PasswordNeedsRehash(stored.PasswordHash))
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "password123"))
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	user := registerTestUser(t, authService)

	testDB.Model(&model.User{}).Where("id = ?", user.ID).Update("is_active", false)

	_, _, err := authService.Login("librarian", "password123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)
	user := registerTestUser(t, authService)

	found, err := authService.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "librarian", found.Username)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)
	user := registerTestUser(t, authService)

	updated, err := authService.UpdateProfile(user.ID, "図書 次郎", "町立中学校", "03-9876-5432")
	require.NoError(t, err)
	assert.Equal(t, "図書 次郎", updated.FullName)
	assert.Equal(t, "町立中学校", updated.Organization)
	assert.Equal(t, "03-9876-5432", updated.Phone)
}
