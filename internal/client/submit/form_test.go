package submit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/securevault/vaultctl/internal/client/api"
	"github.com/securevault/vaultctl/internal/common"
	"github.com/securevault/vaultctl/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeClient struct {
	api.Client

	encryptCalls int
	encryptErr   error

	lastCategory string
	lastField    string
	lastValue    string
}

func (f *fakeClient) EncryptField(ctx context.Context, category, fieldName, value string) error {
	f.encryptCalls++
	if f.encryptErr != nil {
		return f.encryptErr
	}
	f.lastCategory = category
	f.lastField = fieldName
	f.lastValue = value
	return nil
}

func TestSetCategory_UnknownRejected(t *testing.T) {
	f := NewForm(&fakeClient{}, testLogger())
	assert.Error(t, f.SetCategory("No Such Category"))
	_, ok := f.Category()
	assert.False(t, ok)
}

func TestSetField_MustBelongToCategory(t *testing.T) {
	f := NewForm(&fakeClient{}, testLogger())

	// No category yet.
	assert.Error(t, f.SetField("pan"))

	require.NoError(t, f.SetCategory("Financial Info"))
	assert.Error(t, f.SetField("pan"))
	assert.NoError(t, f.SetField("cvv"))
}

func TestSetCategory_ResetsFieldSelection(t *testing.T) {
	f := NewForm(&fakeClient{}, testLogger())
	require.NoError(t, f.SetCategory("Financial Info"))
	require.NoError(t, f.SetField("cvv"))

	require.NoError(t, f.SetCategory("Government Identifiers"))
	_, ok := f.Field()
	assert.False(t, ok)
}

func TestSubmit_RequiresSelections(t *testing.T) {
	fc := &fakeClient{}
	f := NewForm(fc, testLogger())

	assert.Error(t, f.Submit(context.Background()))

	require.NoError(t, f.SetCategory("Financial Info"))
	assert.Error(t, f.Submit(context.Background()))
	assert.Zero(t, fc.encryptCalls)
}

func TestSubmit_EmptyAfterSanitizationRejected(t *testing.T) {
	fc := &fakeClient{}
	f := NewForm(fc, testLogger())
	require.NoError(t, f.SetCategory("Financial Info"))
	require.NoError(t, f.SetField("cvv"))
	f.SetValue(`<>"'`)

	assert.Error(t, f.Submit(context.Background()))
	assert.Zero(t, fc.encryptCalls)
}

func TestSubmit_InvalidValueNeverReachesNetwork(t *testing.T) {
	fc := &fakeClient{}
	f := NewForm(fc, testLogger())
	require.NoError(t, f.SetCategory("Financial Info"))
	require.NoError(t, f.SetField("cvv"))
	f.SetValue("12")

	err := f.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Zero(t, fc.encryptCalls)

	// Selections and value survive the rejection.
	_, ok := f.Field()
	assert.True(t, ok)
	assert.Equal(t, "12", f.Value())
}

func TestSubmit_SendsSanitizedValueAndResets(t *testing.T) {
	fc := &fakeClient{}
	f := NewForm(fc, testLogger())
	require.NoError(t, f.SetCategory("Government Identifiers"))
	require.NoError(t, f.SetField("pan"))
	f.SetValue(`ABCDE"1234F`)

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, 1, fc.encryptCalls)
	assert.Equal(t, "Government Identifiers", fc.lastCategory)
	assert.Equal(t, "pan", fc.lastField)
	assert.Equal(t, "ABCDE1234F", fc.lastValue)

	_, ok := f.Category()
	assert.False(t, ok)
	assert.Empty(t, f.Value())
}

func TestSubmit_ServerFailureKeepsForm(t *testing.T) {
	fc := &fakeClient{encryptErr: errors.New("server unavailable")}
	f := NewForm(fc, testLogger())
	require.NoError(t, f.SetCategory("Government Identifiers"))
	require.NoError(t, f.SetField("pan"))
	f.SetValue("ABCDE1234F")

	require.Error(t, f.Submit(context.Background()))

	field, ok := f.Field()
	require.True(t, ok)
	assert.Equal(t, "pan", field.ID)
	assert.Equal(t, "ABCDE1234F", f.Value())
}
