package auth

import (
	"testing"
	"time"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService() *Service {
	return NewService(models.AuthConfig{
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		RootEmail:    "root@golden.exchange",
		RootPassword: "golden-master-key",
	})
}

func approvedUser(t *testing.T, svc *Service, email, password string) models.User {
	t.Helper()
	u, err := svc.Register(nil, email, password, models.RoleUser, time.Now())
	require.NoError(t, err)
	u.Status = models.StatusApproved
	return u
}

func TestAuthenticateApprovedUser(t *testing.T) {
	svc := testService()
	u := approvedUser(t, svc, "ada@example.com", "hunter22")

	got, err := svc.Authenticate([]models.User{u}, "ada@example.com", "hunter22", time.Now())
	require.NoError(t, err)
	assert.Equal(t, u.Id, got.Id)
}

func TestAuthenticateEmailIsCaseInsensitive(t *testing.T) {
	svc := testService()
	u := approvedUser(t, svc, "ada@example.com", "hunter22")

	_, err := svc.Authenticate([]models.User{u}, "  ADA@Example.COM ", "hunter22", time.Now())
	assert.NoError(t, err)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := testService()
	u := approvedUser(t, svc, "ada@example.com", "hunter22")

	_, err := svc.Authenticate([]models.User{u}, "ada@example.com", "wrong", time.Now())
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := testService()
	_, err := svc.Authenticate(nil, "nobody@example.com", "whatever", time.Now())
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticatePendingUser(t *testing.T) {
	svc := testService()
	u, err := svc.Register(nil, "ada@example.com", "hunter22", models.RoleUser, time.Now())
	require.NoError(t, err)

	_, err = svc.Authenticate([]models.User{u}, "ada@example.com", "hunter22", time.Now())
	assert.ErrorIs(t, err, ErrPendingApproval)
}

func TestAuthenticateBlockedUser(t *testing.T) {
	svc := testService()
	u := approvedUser(t, svc, "ada@example.com", "hunter22")
	u.Status = models.StatusBlocked

	_, err := svc.Authenticate([]models.User{u}, "ada@example.com", "hunter22", time.Now())
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestAuthenticateExpiredUser(t *testing.T) {
	svc := testService()
	u := approvedUser(t, svc, "ada@example.com", "hunter22")
	past := time.Now().Add(-time.Hour)
	u.ExpiresAt = &past

	_, err := svc.Authenticate([]models.User{u}, "ada@example.com", "hunter22", time.Now())
	assert.ErrorIs(t, err, ErrExpired)
}

func TestAuthenticateFutureExpiryStillValid(t *testing.T) {
	svc := testService()
	u := approvedUser(t, svc, "ada@example.com", "hunter22")
	future := time.Now().Add(time.Hour)
	u.ExpiresAt = &future

	_, err := svc.Authenticate([]models.User{u}, "ada@example.com", "hunter22", time.Now())
	assert.NoError(t, err)
}

// The root developer credential works even against an empty user store, so a
// locked-out or freshly-wiped installation is always recoverable.
func TestAuthenticateRootBreakGlass(t *testing.T) {
	svc := testService()

	got, err := svc.Authenticate(nil, "root@golden.exchange", "golden-master-key", time.Now())
	require.NoError(t, err)
	assert.Equal(t, RootUserId, got.Id)
	assert.Equal(t, models.RoleDeveloper, got.Role)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestAuthenticateRootWrongPassword(t *testing.T) {
	svc := testService()
	_, err := svc.Authenticate(nil, "root@golden.exchange", "nope", time.Now())
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterNewUserIsPending(t *testing.T) {
	svc := testService()

	u, err := svc.Register(nil, "ada@example.com", "hunter22", "", time.Now())
	require.NoError(t, err)

	assert.NotEmpty(t, u.Id)
	assert.Equal(t, models.StatusPending, u.Status)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "hunter22", u.Password, "password must be stored hashed")
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	svc := testService()
	existing := approvedUser(t, svc, "ada@example.com", "hunter22")

	_, err := svc.Register([]models.User{existing}, "ADA@EXAMPLE.COM", "other", models.RoleUser, time.Now())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRootEmailIsReserved(t *testing.T) {
	svc := testService()
	_, err := svc.Register(nil, "root@golden.exchange", "whatever", models.RoleUser, time.Now())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestTokenRoundtrip(t *testing.T) {
	svc := testService()
	u := approvedUser(t, svc, "ada@example.com", "hunter22")
	now := time.Now()

	token, err := svc.IssueToken(u, now)
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.Id, claims.Subject)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, u.Role, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc := testService()
	other := NewService(models.AuthConfig{
		JWTSecret: "different-secret",
		TokenTTL:  time.Hour,
	})

	u := approvedUser(t, svc, "ada@example.com", "hunter22")
	token, err := other.IssueToken(u, time.Now())
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := testService()
	u := approvedUser(t, svc, "ada@example.com", "hunter22")

	token, err := svc.IssueToken(u, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}
