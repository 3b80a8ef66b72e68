package users

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockRepository struct {
	users   map[int64]*User
	byEmail map[string]*User
	nextID  int64

	// Error injection
	listErr   error
	getErr    error
	searchErr error
	createErr error
	updateErr error
	deleteErr error
	findErr   error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:   make(map[int64]*User),
		byEmail: make(map[string]*User),
		nextID:  1,
	}
}

func (m *mockRepository) List(ctx context.Context) ([]Profile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	profiles := []Profile{}
	for id := int64(1); id < m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			profiles = append(profiles, Profile{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	return profiles, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Profile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Profile{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (m *mockRepository) SearchByName(ctx context.Context, name string) ([]Profile, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	profiles := []Profile{}
	for id := int64(1); id < m.nextID; id++ {
		u, ok := m.users[id]
		if !ok {
			continue
		}
		if containsFold(u.Name, name) {
			profiles = append(profiles, Profile{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	return profiles, nil
}

func (m *mockRepository) Create(ctx context.Context, name, email, passwordHash string) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	if _, exists := m.byEmail[email]; exists {
		return 0, ErrDuplicateEmail
	}
	id := m.nextID
	m.nextID++
	u := &User{ID: id, Name: name, Email: email, PasswordHash: passwordHash}
	m.users[id] = u
	m.byEmail[email] = u
	return id, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, fields UpdateFields) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	u, ok := m.users[id]
	if !ok {
		return false, ErrNotFound
	}
	if fields.Email != nil {
		if other, exists := m.byEmail[*fields.Email]; exists && other.ID != id {
			return false, ErrDuplicateEmail
		}
		delete(m.byEmail, u.Email)
		u.Email = *fields.Email
		m.byEmail[u.Email] = u
	}
	if fields.Name != nil {
		u.Name = *fields.Name
	}
	return !fields.IsEmpty(), nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byEmail, u.Email)
	delete(m.users, id)
	return nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

// containsFold mimics the case-insensitive ILIKE substring match.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

var _ Repository = (*mockRepository)(nil)

func TestCreateHashesPassword(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	id, err := service.Create(context.Background(), "John Doe", "john@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	stored := repo.users[id]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	_, err := service.Create(context.Background(), "John Doe", "john@example.com", "password123")
	require.NoError(t, err)

	_, err = service.Create(context.Background(), "Impostor", "john@example.com", "longenough")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Len(t, repo.users, 1)
}

func TestAuthenticate(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	id, err := service.Create(context.Background(), "John Doe", "john@example.com", "password123")
	require.NoError(t, err)

	gotID, err := service.Authenticate(context.Background(), "john@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	_, err := service.Create(context.Background(), "John Doe", "john@example.com", "password123")
	require.NoError(t, err)

	_, wrongPassword := service.Authenticate(context.Background(), "john@example.com", "not-the-password")
	_, unknownEmail := service.Authenticate(context.Background(), "nobody@example.com", "password123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestAuthenticateRepositoryFailure(t *testing.T) {
	repo := newMockRepository()
	repo.findErr = assert.AnError
	service := NewService(repo)

	_, err := service.Authenticate(context.Background(), "john@example.com", "password123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateAppliesOnlySuppliedFields(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	id, err := service.Create(context.Background(), "John Doe", "john@example.com", "password123")
	require.NoError(t, err)

	newName := "Johnny Doe"
	changed, err := service.Update(context.Background(), id, UpdateFields{Name: &newName})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Johnny Doe", repo.users[id].Name)
	assert.Equal(t, "john@example.com", repo.users[id].Email)
}
