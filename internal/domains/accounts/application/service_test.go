package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/streetsource/streetsource-api/internal/domains/accounts/domain"
	"github.com/streetsource/streetsource-api/internal/domains/accounts/ports"
	"github.com/streetsource/streetsource-api/internal/platform/auth"
)

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}}
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	clone := *user
	if clone.ID == 0 {
		f.nextID++
		clone.ID = f.nextID
	}
	f.users[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Phone == phone {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := f.users[user.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	return f.Save(ctx, user)
}

type fakeSessions struct {
	tokens map[string]int64
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]int64{}}
}

func (f *fakeSessions) Save(_ context.Context, userID int64, token string) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeSessions) Validate(_ context.Context, token string) (bool, error) {
	_, ok := f.tokens[token]
	return ok, nil
}

func (f *fakeSessions) DeleteByUser(_ context.Context, userID int64) error {
	for token, id := range f.tokens {
		if id == userID {
			delete(f.tokens, token)
		}
	}
	return nil
}

func (f *fakeSessions) PurgeExpired(_ context.Context) error { return nil }

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeSessions) {
	t.Helper()
	tokens, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	repo := newFakeUserRepo()
	sessions := newFakeSessions()
	return NewService(repo, sessions, tokens), repo, sessions
}

func TestRegister_HashesPINAndIssuesToken(t *testing.T) {
	svc, repo, sessions := newTestService(t)

	user, token, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:  "Ravi Kumar",
		Phone: "9876543210",
		PIN:   "4321",
		Role:  domain.RoleVendor,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEmpty(t, token)
	require.NotEqual(t, "4321", user.PINHash)

	stored := repo.users[user.ID]
	require.Equal(t, domain.RoleVendor, stored.Role)

	ok, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, sessions.tokens, 1)
}

func TestRegister_RejectsDuplicatePhone(t *testing.T) {
	svc, _, _ := newTestService(t)

	input := ports.RegisterInput{Name: "Ravi", Phone: "9876543210", PIN: "4321", Role: domain.RoleVendor}
	_, _, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ports.ErrPhoneTaken)
}

func TestRegister_RejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "R", Phone: "9876543210", PIN: "4321", Role: domain.RoleVendor,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ravi", Phone: "12345", PIN: "4321", Role: domain.RoleVendor,
	})
	require.ErrorIs(t, err, domain.ErrInvalidPhone)

	_, _, err = svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ravi", Phone: "9876543210", PIN: "12", Role: domain.RoleVendor,
	})
	require.ErrorIs(t, err, domain.ErrWeakPIN)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Meena", Phone: "9123456780", PIN: "9999", Role: domain.RoleSupplier,
	})
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "9123456780", "9999")
	require.NoError(t, err)
	require.Equal(t, "Meena", user.Name)

	ok, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLogin_WrongPIN(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Meena", Phone: "9123456780", PIN: "9999", Role: domain.RoleSupplier,
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "9123456780", "0000")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestLogin_UnknownPhone(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, _, err := svc.Login(context.Background(), "9123456780", "9999")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestLogout_RevokesSessions(t *testing.T) {
	svc, _, _ := newTestService(t)

	user, token, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Asha", Phone: "9988776655", PIN: "2468", Role: domain.RoleNormalUser,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID))

	ok, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.False(t, ok)
}
