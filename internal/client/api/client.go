// Package api implements the HTTP boundary to the vault backend. It exposes
// a Client interface so services and tests can substitute fakes, and an
// HTTPClient that speaks the backend's REST contract.
package api

import "context"

// CategoryRecord is one per-user category as returned by GET /api/vault.
// ID and Type both carry the category name; Fields is the ordered set of
// field ids stored under it.
type CategoryRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	DateAdded string   `json:"dateAdded"`
	Status    string   `json:"status"`
	Fields    []string `json:"fields"`
}

// UserRecord is a per-category aggregate in the admin listing. Values in
// MaskedData are masked previews, never plaintext.
type UserRecord struct {
	Type       string            `json:"type"`
	Fields     []string          `json:"fields"`
	MaskedData map[string]string `json:"maskedData"`
}

// User is one row of GET /api/admin/users-data.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	JoinDate     string       `json:"joinDate"`
	RecordsCount int          `json:"recordsCount"`
	LastActive   string       `json:"lastActive"`
	Status       string       `json:"status"`
	Records      []UserRecord `json:"records"`
}

// Client defines the backend operations the rest of the client depends on.
//
// Contract:
//   - All methods honor context cancellation/timeouts.
//   - Authenticated calls carry the bearer token from the configured source.
//   - A 401 from any authenticated call fires the unauthorized hook before
//     the error is returned.
type Client interface {
	Login(ctx context.Context, email, password, captchaToken string) (string, error)
	Register(ctx context.Context, name, email, password, captchaToken string) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error

	ListVault(ctx context.Context) ([]CategoryRecord, error)
	DecryptField(ctx context.Context, category, fieldName string) (string, error)
	EncryptField(ctx context.Context, category, fieldName, value string) error
	UpdateField(ctx context.Context, category, fieldName, newValue string) error
	DeleteField(ctx context.Context, category, fieldName string) error
	DeleteCategory(ctx context.Context, category string) error

	ListUsersData(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id int64) error
}
