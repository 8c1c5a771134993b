package vault

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/securevault/vaultctl/internal/client/api"
	"github.com/securevault/vaultctl/internal/common"
	"github.com/securevault/vaultctl/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeClient implements the backend surface the store touches. Unused
// methods come from the embedded interface and panic if called.
type fakeClient struct {
	api.Client

	mu           sync.Mutex
	records      []api.CategoryRecord
	plaintexts   map[Key]string
	decryptDelay time.Duration

	listCalls    int
	decryptCalls map[Key]int
	updateCalls  int
	updateErr    error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		plaintexts:   make(map[Key]string),
		decryptCalls: make(map[Key]int),
	}
}

func (f *fakeClient) ListVault(ctx context.Context) ([]api.CategoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]api.CategoryRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeClient) DecryptField(ctx context.Context, category, fieldName string) (string, error) {
	k := Key{Category: category, Field: fieldName}
	f.mu.Lock()
	f.decryptCalls[k]++
	delay := f.decryptDelay
	v, ok := f.plaintexts[k]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if !ok {
		return "", common.ErrorNotFound
	}
	return v, nil
}

func (f *fakeClient) UpdateField(ctx context.Context, category, fieldName, newValue string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.plaintexts[Key{Category: category, Field: fieldName}] = newValue
	return nil
}

func (f *fakeClient) DeleteField(ctx context.Context, category, fieldName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.plaintexts, Key{Category: category, Field: fieldName})
	for i, r := range f.records {
		if r.Type != category {
			continue
		}
		fields := r.Fields[:0]
		for _, fl := range r.Fields {
			if fl != fieldName {
				fields = append(fields, fl)
			}
		}
		if len(fields) == 0 {
			f.records = append(f.records[:i], f.records[i+1:]...)
		} else {
			f.records[i].Fields = fields
		}
		return nil
	}
	return common.ErrorNotFound
}

func (f *fakeClient) DeleteCategory(ctx context.Context, category string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.Type == category {
			f.records = append(f.records[:i], f.records[i+1:]...)
			for k := range f.plaintexts {
				if k.Category == category {
					delete(f.plaintexts, k)
				}
			}
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeClient) decryptCount(category, field string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.decryptCalls[Key{Category: category, Field: field}]
}

const govCat = "Government Identifiers"

func seededStore(t *testing.T) (*Store, *fakeClient) {
	t.Helper()
	fc := newFakeClient()
	fc.records = []api.CategoryRecord{
		{ID: govCat, Name: govCat, Type: govCat, Fields: []string{"pan", "passport"}},
		{ID: "Financial Info", Name: "Financial Info", Type: "Financial Info", Fields: []string{"cvv"}},
	}
	fc.plaintexts[Key{govCat, "pan"}] = "ABCDE1234F"
	fc.plaintexts[Key{govCat, "passport"}] = "A1234567"
	fc.plaintexts[Key{"Financial Info", "cvv"}] = "123"

	s := NewStore(fc, testLogger())
	require.NoError(t, s.Refresh(context.Background()))
	return s, fc
}

func TestRefresh_ReplacesListingWholesale(t *testing.T) {
	s, fc := seededStore(t)
	assert.Len(t, s.Records(), 2)
	assert.Equal(t, 3, s.TotalFields())

	fc.mu.Lock()
	fc.records = []api.CategoryRecord{{ID: "Financial Info", Type: "Financial Info", Fields: []string{"cvv"}}}
	fc.mu.Unlock()

	require.NoError(t, s.Refresh(context.Background()))
	assert.Len(t, s.Records(), 1)

	_, ok := s.Record(govCat)
	assert.False(t, ok)
}

func TestReveal_DecryptsAllFieldsOnce(t *testing.T) {
	s, fc := seededStore(t)

	require.NoError(t, s.Reveal(context.Background(), govCat))

	v, state := s.FieldValue(govCat, "pan")
	assert.Equal(t, Revealed, state)
	assert.Equal(t, "ABCDE1234F", v)

	v, state = s.FieldValue(govCat, "passport")
	assert.Equal(t, Revealed, state)
	assert.Equal(t, "A1234567", v)

	// A second reveal issues no further network calls.
	require.NoError(t, s.Reveal(context.Background(), govCat))
	assert.Equal(t, 1, fc.decryptCount(govCat, "pan"))
	assert.Equal(t, 1, fc.decryptCount(govCat, "passport"))
}

func TestReveal_UnknownCategory(t *testing.T) {
	s, _ := seededStore(t)
	assert.Error(t, s.Reveal(context.Background(), "No Such Category"))
}

func TestReveal_PartialFailureKeepsOtherFields(t *testing.T) {
	s, fc := seededStore(t)
	fc.mu.Lock()
	delete(fc.plaintexts, Key{govCat, "passport"})
	fc.mu.Unlock()

	err := s.Reveal(context.Background(), govCat)
	require.Error(t, err)

	_, state := s.FieldValue(govCat, "pan")
	assert.Equal(t, Revealed, state)
	_, state = s.FieldValue(govCat, "passport")
	assert.Equal(t, Hidden, state)
}

func TestCache_ConcurrentRequestsDeduplicated(t *testing.T) {
	s, fc := seededStore(t)
	fc.decryptDelay = 20 * time.Millisecond

	var wg sync.WaitGroup
	results := make([]string, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := s.cache.GetOrFetch(context.Background(), govCat, "pan", func(ctx context.Context) (string, error) {
				return fc.DecryptField(ctx, govCat, "pan")
			})
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, fc.decryptCount(govCat, "pan"))
	for _, v := range results {
		assert.Equal(t, "ABCDE1234F", v)
	}
}

func TestCache_PeekStates(t *testing.T) {
	c := NewDecryptCache()

	_, state := c.Peek("cat", "field")
	assert.Equal(t, Hidden, state)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.GetOrFetch(context.Background(), "cat", "field", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "plain", nil
		})
	}()

	<-started
	_, state = c.Peek("cat", "field")
	assert.Equal(t, Decrypting, state)

	close(release)
	<-done
	v, state := c.Peek("cat", "field")
	assert.Equal(t, Revealed, state)
	assert.Equal(t, "plain", v)
}

func TestCache_FailedFetchAllowsRetry(t *testing.T) {
	c := NewDecryptCache()
	calls := 0
	fetch := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("boom")
		}
		return "ok", nil
	}

	_, err := c.GetOrFetch(context.Background(), "cat", "field", fetch)
	require.Error(t, err)
	_, state := c.Peek("cat", "field")
	assert.Equal(t, Hidden, state)

	v, err := c.GetOrFetch(context.Background(), "cat", "field", fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestOpenEdit_SeedsDraftFromCache(t *testing.T) {
	s, _ := seededStore(t)
	require.NoError(t, s.Reveal(context.Background(), govCat))

	edit := s.OpenEdit(govCat, "pan")
	assert.Equal(t, "ABCDE1234F", edit.Draft)

	// Not yet decrypted: draft starts empty.
	edit = s.OpenEdit("Financial Info", "cvv")
	assert.Empty(t, edit.Draft)

	// Opening the second edit closed the first.
	active, ok := s.Edit()
	require.True(t, ok)
	assert.Equal(t, "cvv", active.Field)
}

func TestSaveEdit_InvalidValueNeverReachesNetwork(t *testing.T) {
	s, fc := seededStore(t)
	require.NoError(t, s.Reveal(context.Background(), "Financial Info"))

	s.OpenEdit("Financial Info", "cvv")
	s.SetDraft("12")

	err := s.SaveEdit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, 0, fc.updateCalls)

	// Cache untouched, session still open for correction.
	v, _ := s.FieldValue("Financial Info", "cvv")
	assert.Equal(t, "123", v)
	_, ok := s.Edit()
	assert.True(t, ok)
}

func TestSaveEdit_ValidValueUpdatesCacheAndCloses(t *testing.T) {
	s, fc := seededStore(t)
	require.NoError(t, s.Reveal(context.Background(), govCat))

	s.OpenEdit(govCat, "pan")
	s.SetDraft("ZZZZZ9999Z")

	require.NoError(t, s.SaveEdit(context.Background()))
	assert.Equal(t, 1, fc.updateCalls)

	v, state := s.FieldValue(govCat, "pan")
	assert.Equal(t, Revealed, state)
	assert.Equal(t, "ZZZZZ9999Z", v)

	_, ok := s.Edit()
	assert.False(t, ok)
}

func TestSaveEdit_SanitizesBeforeValidationAndSubmit(t *testing.T) {
	s, fc := seededStore(t)
	require.NoError(t, s.Reveal(context.Background(), govCat))

	s.OpenEdit(govCat, "pan")
	// Sanitization strips the quotes, leaving a valid PAN.
	s.SetDraft(`ZZ"ZZZ'9999Z`)

	require.NoError(t, s.SaveEdit(context.Background()))
	v, _ := s.FieldValue(govCat, "pan")
	assert.Equal(t, "ZZZZZ9999Z", v)

	fc.mu.Lock()
	stored := fc.plaintexts[Key{govCat, "pan"}]
	fc.mu.Unlock()
	assert.Equal(t, "ZZZZZ9999Z", stored)
}

func TestSaveEdit_ServerFailureKeepsCacheAndSession(t *testing.T) {
	s, fc := seededStore(t)
	require.NoError(t, s.Reveal(context.Background(), govCat))

	fc.mu.Lock()
	fc.updateErr = errors.New("server unavailable")
	fc.mu.Unlock()

	s.OpenEdit(govCat, "pan")
	s.SetDraft("ZZZZZ9999Z")

	require.Error(t, s.SaveEdit(context.Background()))

	v, _ := s.FieldValue(govCat, "pan")
	assert.Equal(t, "ABCDE1234F", v)

	active, ok := s.Edit()
	require.True(t, ok)
	assert.Equal(t, "ZZZZZ9999Z", active.Draft)
}

func TestDeleteField_RemovesCacheEntryAndRefetches(t *testing.T) {
	s, fc := seededStore(t)
	require.NoError(t, s.Reveal(context.Background(), govCat))

	fc.mu.Lock()
	listCallsBefore := fc.listCalls
	fc.mu.Unlock()

	require.NoError(t, s.DeleteField(context.Background(), govCat, "passport"))

	_, state := s.FieldValue(govCat, "passport")
	assert.Equal(t, Hidden, state)

	fc.mu.Lock()
	assert.Equal(t, listCallsBefore+1, fc.listCalls)
	fc.mu.Unlock()

	record, ok := s.Record(govCat)
	require.True(t, ok)
	assert.Equal(t, []string{"pan"}, record.Fields)
}

func TestDeleteField_LastFieldRemovesCategory(t *testing.T) {
	s, _ := seededStore(t)

	require.NoError(t, s.DeleteField(context.Background(), "Financial Info", "cvv"))

	_, ok := s.Record("Financial Info")
	assert.False(t, ok)
}

func TestDeleteCategory_RemovesAllEntriesAndRefetches(t *testing.T) {
	s, _ := seededStore(t)
	require.NoError(t, s.Reveal(context.Background(), govCat))

	require.NoError(t, s.DeleteCategory(context.Background(), govCat))

	_, ok := s.Record(govCat)
	assert.False(t, ok)
	_, state := s.FieldValue(govCat, "pan")
	assert.Equal(t, Hidden, state)
	_, state = s.FieldValue(govCat, "passport")
	assert.Equal(t, Hidden, state)
}

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	s, _ := seededStore(t)

	matches := s.Filter("financial")
	require.Len(t, matches, 1)
	assert.Equal(t, "Financial Info", matches[0].Type)

	assert.Len(t, s.Filter(""), 2)
	assert.Empty(t, s.Filter("zzz"))
}

// Full decrypt → edit → delete pass over one field.
func TestFieldLifecycle(t *testing.T) {
	s, fc := seededStore(t)

	require.NoError(t, s.Reveal(context.Background(), govCat))
	v, _ := s.FieldValue(govCat, "pan")
	require.Equal(t, "ABCDE1234F", v)

	s.OpenEdit(govCat, "pan")
	s.SetDraft("ZZZZZ9999Z")
	require.NoError(t, s.SaveEdit(context.Background()))

	v, _ = s.FieldValue(govCat, "pan")
	require.Equal(t, "ZZZZZ9999Z", v)

	require.NoError(t, s.DeleteField(context.Background(), govCat, "pan"))
	_, state := s.FieldValue(govCat, "pan")
	assert.Equal(t, Hidden, state)

	record, ok := s.Record(govCat)
	require.True(t, ok)
	assert.NotContains(t, record.Fields, "pan")
	_ = fc
}
