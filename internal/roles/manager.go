// Package roles drives the user role assignment screen: a user list with
// optimistic role changes that revert when the backend rejects them.
package roles

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"dutychart/internal/model"
	"dutychart/internal/optimistic"
)

// Directory is the REST surface the manager needs. *api.Client satisfies it.
type Directory interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	SetUserRole(ctx context.Context, userID int64, roleSlug string) error
}

// Notifier receives the transient success/error toasts.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Manager holds the user and role lists behind the assignment table.
type Manager struct {
	client   Directory
	notifier Notifier
	logger   *zerolog.Logger

	mu    sync.Mutex
	users []model.User
	roles []model.Role
}

// NewManager builds an empty manager; call Load to populate it.
func NewManager(client Directory, notifier Notifier, logger *zerolog.Logger) *Manager {
	return &Manager{client: client, notifier: notifier, logger: logger}
}

// Load fetches users and roles. A failure of either fetch leaves prior state
// intact and reports one error toast.
func (m *Manager) Load(ctx context.Context) {
	users, err := m.client.ListUsers(ctx)
	if err == nil {
		var roles []model.Role
		roles, err = m.client.ListRoles(ctx)
		if err == nil {
			m.mu.Lock()
			m.users = users
			m.roles = roles
			m.mu.Unlock()
			return
		}
	}

	if m.logger != nil {
		m.logger.Error().Err(err).Msg("failed to fetch users and roles")
	}
	if m.notifier != nil {
		m.notifier.Error("Failed to load users and roles")
	}
}

// AssignRole changes a user's role optimistically: the list shows the new role
// immediately and rolls back to the prior snapshot if the backend rejects the
// change.
func (m *Manager) AssignRole(ctx context.Context, userID int64, roleSlug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tentative := make([]model.User, len(m.users))
	copy(tentative, m.users)
	for i := range tentative {
		if tentative[i].ID == userID {
			tentative[i].Role = roleSlug
		}
	}

	err := optimistic.Update(ctx, &m.users, tentative, func(ctx context.Context) error {
		return m.client.SetUserRole(ctx, userID, roleSlug)
	})
	if err != nil {
		if m.logger != nil {
			m.logger.Error().Err(err).Int64("user", userID).Str("role", roleSlug).Msg("failed to update role")
		}
		if m.notifier != nil {
			m.notifier.Error("Failed to update user role")
		}
		return err
	}

	if m.notifier != nil {
		m.notifier.Success("User role updated")
	}
	return nil
}

// Users returns a copy of the current user list.
func (m *Manager) Users() []model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, len(m.users))
	copy(out, m.users)
	return out
}

// Roles returns a copy of the assignable roles.
func (m *Manager) Roles() []model.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Role, len(m.roles))
	copy(out, m.roles)
	return out
}

// Filter returns the users whose name or email contains the query,
// case-insensitively. An empty query returns everyone.
func (m *Manager) Filter(query string) []model.User {
	users := m.Users()
	if query == "" {
		return users
	}

	q := strings.ToLower(query)
	out := users[:0]
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.FullName), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}
