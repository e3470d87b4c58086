package unit

import (
	"context"
	"testing"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/security"
	"nftflow-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (service.AuthService, *fakeStore, security.TokenManager) {
	store := newFakeStore()
	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", 60, 60*24*7)
	return service.NewAuthService(store, tokens), store, tokens
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	svc, _, tokens := newAuthFixture()
	ctx := context.Background()

	user, access, refresh, err := svc.Signup(ctx, "Alice", "Alice@Test.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, "alice@test.com", user.Email) // normalized
	assert.Equal(t, domain.UserRoleMember, user.Role)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := tokens.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, security.TokenTypeAccess, claims.Type)

	_, _, _, err = svc.Signup(ctx, "Alice2", "alice@test.com", "supersecret")
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	_, _, err = svc.Login(ctx, "alice@test.com", "supersecret")
	assert.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@test.com", "wrongpassword")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@test.com", "supersecret")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_SignupValidation(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, _, _, err := svc.Signup(context.Background(), "Bob", "bob@test.com", "short")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, access, refresh, err := svc.Signup(ctx, "Carol", "carol@test.com", "supersecret")
	require.NoError(t, err)

	newAccess, newRefresh, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)

	// An access token must not pass as a refresh token.
	_, _, err = svc.Refresh(ctx, access)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLedgerService_Credit(t *testing.T) {
	store := newFakeStore()
	admin := store.addUser("admin", domain.UserRoleAdmin, 0)
	member := store.addUser("member", domain.UserRoleMember, 0)
	svc := service.NewLedgerService(store)
	ctx := context.Background()

	err := svc.Credit(ctx, member.ID, member.ID, 1000, "self serve")
	assert.ErrorIs(t, err, service.ErrNotAuthorized)

	err = svc.Credit(ctx, admin.ID, member.ID, -5, "negative")
	assert.ErrorIs(t, err, service.ErrInvalidDeposit)

	require.NoError(t, svc.Credit(ctx, admin.ID, member.ID, 1000, "onboarding grant"))
	balance, err := svc.GetBalance(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	entries, total, err := svc.ListEntries(ctx, member.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Equal(t, domain.EntryTypeDeposit, entries[0].Type)
}
