package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/models"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/repository"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/session"
)

// --- fakes ---

type fakeUserStore struct {
	nextID int64
	byID   map[int64]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: make(map[int64]models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.byID {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.byID[user.ID] = *user
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) ListByRole(_ context.Context, role models.Role, emailQuery string, limit int) ([]models.User, error) {
	var users []models.User
	for _, user := range f.byID {
		if user.Role != role {
			continue
		}
		if emailQuery != "" && !strings.Contains(strings.ToLower(user.Email), strings.ToLower(emailQuery)) {
			continue
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func newAccountService(users UserStore) (*AccountService, session.Manager) {
	sessions := session.NewMemoryManager(time.Hour)
	return NewAccountService(users, sessions, zerolog.Nop()), sessions
}

// --- tests ---

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newAccountService(newFakeUserStore())
	ctx := context.Background()

	identity, err := svc.Register(ctx, "Dr.House@Example.COM ", "lupus123", models.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, "dr.house@example.com", identity.Email)
	assert.Equal(t, models.RoleDoctor, identity.Role)
	assert.NotZero(t, identity.ID)

	token, err := svc.Login(ctx, "dr.house@example.com", "lupus123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	whoami, err := svc.WhoAmI(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, identity, whoami)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAccountService(newFakeUserStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "patient@test.com", "secret1", models.RolePatient)
	require.NoError(t, err)

	// same address, different case: still one row
	_, err = svc.Register(ctx, "PATIENT@test.com", "secret2", models.RolePatient)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAccountService(newFakeUserStore())
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		role     models.Role
		want     error
	}{
		{"bad role", "a@b.com", "secret1", models.Role("admin"), ErrInvalidRole},
		{"empty role", "a@b.com", "secret1", models.Role(""), ErrInvalidRole},
		{"bad email", "not-an-email", "secret1", models.RolePatient, ErrValidation},
		{"short password", "a@b.com", "pw", models.RolePatient, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, tt.role)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoginUniformFailure(t *testing.T) {
	svc, _ := newAccountService(newFakeUserStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "known@test.com", "secret1", models.RolePatient)
	require.NoError(t, err)

	// wrong password and unknown email are indistinguishable
	_, wrongPass := svc.Login(ctx, "known@test.com", "wrong")
	_, noUser := svc.Login(ctx, "nobody@test.com", "secret1")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestLogoutDestroysSession(t *testing.T) {
	svc, _ := newAccountService(newFakeUserStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "p@test.com", "secret1", models.RolePatient)
	require.NoError(t, err)
	token, err := svc.Login(ctx, "p@test.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.WhoAmI(ctx, token)
	assert.ErrorIs(t, err, session.ErrUnauthenticated)

	// logging out twice is fine
	require.NoError(t, svc.Logout(ctx, token))
}

func TestSearchPatientsStripsHashes(t *testing.T) {
	store := newFakeUserStore()
	svc, _ := newAccountService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@test.com", "secret1", models.RolePatient)
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob@test.com", "secret1", models.RolePatient)
	require.NoError(t, err)
	_, err = svc.Register(ctx, "doc@test.com", "secret1", models.RoleDoctor)
	require.NoError(t, err)

	patients, err := svc.SearchPatients(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "alice@test.com", patients[0].Email)
	assert.Equal(t, "bob@test.com", patients[1].Email)
	for _, p := range patients {
		assert.Equal(t, models.RolePatient, p.Role)
		assert.Empty(t, p.PasswordHash)
	}

	matched, err := svc.SearchPatients(ctx, "ali", 10)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "alice@test.com", matched[0].Email)
}
