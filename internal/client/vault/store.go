// Package vault is the client-side record model: the authoritative category
// listing, lazy per-field decryption with caching, and fine-grained edit and
// delete semantics.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/securevault/vaultctl/internal/client/api"
	"github.com/securevault/vaultctl/internal/client/registry"
	"github.com/securevault/vaultctl/internal/logging"
)

// EditSession is the exclusive in-progress edit. Opening an edit on another
// field closes any open one by construction.
type EditSession struct {
	Category string
	Field    string
	Draft    string
}

// PendingDeletion is a confirmation-gated delete target. An empty Field
// means the entire category.
type PendingDeletion struct {
	Category string
	Field    string
}

// Store holds the per-user vault state for the lifetime of the run. The
// decrypt cache and the listing are shared by every component that reads
// them; all observe the latest write.
type Store struct {
	client api.Client
	cache  *DecryptCache
	logger logging.Logger

	mu      sync.Mutex
	records []api.CategoryRecord
	edit    *EditSession
}

func NewStore(client api.Client, logger logging.Logger) *Store {
	return &Store{
		client: client,
		cache:  NewDecryptCache(),
		logger: logger,
	}
}

// Refresh fetches the full category listing and replaces local state
// wholesale. The server response is the authoritative set; there is no
// incremental merge.
func (s *Store) Refresh(ctx context.Context) error {
	records, err := s.client.ListVault(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	s.logger.Debug(ctx, "vault listing refreshed", "categories", len(records))
	return nil
}

// Records returns the current listing.
func (s *Store) Records() []api.CategoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.CategoryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Record returns the category record with the given name.
func (s *Store) Record(category string) (api.CategoryRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Type == category {
			return r, true
		}
	}
	return api.CategoryRecord{}, false
}

// Filter returns records whose category name contains term,
// case-insensitively. Purely local; server state and cache are untouched.
func (s *Store) Filter(term string) []api.CategoryRecord {
	needle := strings.ToLower(term)
	var out []api.CategoryRecord
	for _, r := range s.Records() {
		if strings.Contains(strings.ToLower(r.Type), needle) {
			out = append(out, r)
		}
	}
	return out
}

// TotalFields counts fields across all categories.
func (s *Store) TotalFields() int {
	total := 0
	for _, r := range s.Records() {
		total += len(r.Fields)
	}
	return total
}

// Reveal decrypts every field of the category that is not already cached.
// Fetches for distinct fields run concurrently and complete in any order;
// a failed field does not abort the others. Reveals of different categories
// are independent.
func (s *Store) Reveal(ctx context.Context, category string) error {
	record, ok := s.Record(category)
	if !ok {
		return fmt.Errorf("no record for category %q", category)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(record.Fields))
	for i, field := range record.Fields {
		if _, state := s.cache.Peek(category, field); state == Revealed {
			continue
		}
		wg.Add(1)
		go func(i int, field string) {
			defer wg.Done()
			_, err := s.cache.GetOrFetch(ctx, category, field, func(ctx context.Context) (string, error) {
				return s.client.DecryptField(ctx, category, field)
			})
			if err != nil {
				errs[i] = fmt.Errorf("decrypting %s: %w", registry.DisplayName(field), err)
			}
		}(i, field)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// FieldValue reports the plaintext and state for one field.
func (s *Store) FieldValue(category, field string) (string, FieldState) {
	return s.cache.Peek(category, field)
}

// OpenEdit starts an edit session for the field, closing any open session
// first. The draft is seeded with the cached plaintext, or empty when the
// field has not been decrypted yet.
func (s *Store) OpenEdit(category, field string) EditSession {
	seed, _ := s.cache.Peek(category, field)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = &EditSession{Category: category, Field: field, Draft: seed}
	return *s.edit
}

// Edit returns the active edit session, if any.
func (s *Store) Edit() (EditSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return EditSession{}, false
	}
	return *s.edit, true
}

// SetDraft replaces the draft value of the active edit session.
func (s *Store) SetDraft(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit != nil {
		s.edit.Draft = value
	}
}

// CancelEdit closes the active edit session without saving.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = nil
}

// SaveEdit sanitizes and validates the draft, then submits it. A validation
// failure aborts locally with no network call. The cache is overwritten and
// the session closed only on server acknowledgment; a failed update leaves
// both intact so the user can retry.
func (s *Store) SaveEdit(ctx context.Context) error {
	s.mu.Lock()
	if s.edit == nil {
		s.mu.Unlock()
		return errors.New("no active edit session")
	}
	edit := *s.edit
	s.mu.Unlock()

	sanitized := registry.Sanitize(edit.Draft)
	if err := registry.Validate(edit.Field, sanitized); err != nil {
		return err
	}

	if err := s.client.UpdateField(ctx, edit.Category, edit.Field, sanitized); err != nil {
		return err
	}

	s.cache.Put(edit.Category, edit.Field, sanitized)
	s.mu.Lock()
	// Only close the session we actually saved.
	if s.edit != nil && s.edit.Category == edit.Category && s.edit.Field == edit.Field {
		s.edit = nil
	}
	s.mu.Unlock()
	s.logger.Info(ctx, "field updated", "category", edit.Category, "field", edit.Field)
	return nil
}

// DeleteField removes one field after the caller has confirmed the target,
// then re-fetches the listing: removing the last field changes the
// category-level aggregate, which is simplest to re-derive from the source
// of truth.
func (s *Store) DeleteField(ctx context.Context, category, field string) error {
	if err := s.client.DeleteField(ctx, category, field); err != nil {
		return err
	}
	s.cache.Remove(category, field)
	s.closeEditFor(category, field)
	return s.Refresh(ctx)
}

// DeleteCategory removes a whole category and all its fields, then
// re-fetches the listing.
func (s *Store) DeleteCategory(ctx context.Context, category string) error {
	if err := s.client.DeleteCategory(ctx, category); err != nil {
		return err
	}
	s.cache.RemoveCategory(category)
	s.closeEditFor(category, "")
	return s.Refresh(ctx)
}

func (s *Store) closeEditFor(category, field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil || s.edit.Category != category {
		return
	}
	if field == "" || s.edit.Field == field {
		s.edit = nil
	}
}
