// Package admin holds the user directory backing the admin view: the full
// user roster with per-category aggregates and masked previews.
package admin

import (
	"context"
	"strings"
	"sync"

	"github.com/securevault/vaultctl/internal/client/api"
	"github.com/securevault/vaultctl/internal/logging"
)

// Directory is the admin-side user listing. It never holds plaintext vault
// values; records carry masked previews only.
type Directory struct {
	client api.Client
	logger logging.Logger

	mu    sync.Mutex
	users []api.User
}

func NewDirectory(client api.Client, logger logging.Logger) *Directory {
	return &Directory{client: client, logger: logger}
}

// Load fetches the full roster, replacing local state wholesale.
func (d *Directory) Load(ctx context.Context) error {
	users, err := d.client.ListUsersData(ctx)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.users = users
	d.mu.Unlock()
	d.logger.Debug(ctx, "user directory loaded", "users", len(users))
	return nil
}

// Users returns the current roster.
func (d *Directory) Users() []api.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]api.User, len(d.users))
	copy(out, d.users)
	return out
}

// User returns the roster entry with the given id.
func (d *Directory) User(id int64) (api.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return api.User{}, false
}

// Filter returns users whose username or email contains term,
// case-insensitively. Purely local.
func (d *Directory) Filter(term string) []api.User {
	needle := strings.ToLower(term)
	var out []api.User
	for _, u := range d.Users() {
		if strings.Contains(strings.ToLower(u.Username), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			out = append(out, u)
		}
	}
	return out
}

// Delete removes the user account and all their stored data, then drops the
// row locally. No re-fetch: the deletion is the only change and the local
// removal reflects it exactly.
func (d *Directory) Delete(ctx context.Context, id int64) error {
	if err := d.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	d.mu.Lock()
	for i, u := range d.users {
		if u.ID == id {
			d.users = append(d.users[:i], d.users[i+1:]...)
			break
		}
	}
	d.mu.Unlock()
	d.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}
