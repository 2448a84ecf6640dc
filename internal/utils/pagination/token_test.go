package pagination_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/credisur/creditledger/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	disbursementDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 10, 14, 30, 45, 123456789, time.UTC)

	token := pagination.EncodeToken(disbursementDate, createdAt)
	assert.NotEmpty(t, token)

	gotDate, gotCreatedAt, err := pagination.DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, disbursementDate, gotDate)
	assert.Equal(t, createdAt, gotCreatedAt)

	// Zero times must survive the round trip too, they show up when a row
	// predates the created_at column.
	var zero time.Time
	gotDate, gotCreatedAt, err = pagination.DecodeToken(pagination.EncodeToken(zero, zero))
	assert.NoError(t, err)
	assert.Equal(t, zero, gotDate)
	assert.Equal(t, zero, gotCreatedAt)

	now := time.Now().UTC()
	gotDate, gotCreatedAt, err = pagination.DecodeToken(pagination.EncodeToken(now, now))
	assert.NoError(t, err)
	assert.True(t, now.Equal(gotDate))
	assert.True(t, now.Equal(gotCreatedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := pagination.DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	// A valid single timestamp is not a two-field cursor.
	singleField := base64.StdEncoding.EncodeToString([]byte("2025-03-10T00:00:00Z"))
	_, _, err = pagination.DecodeToken(singleField)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.StdEncoding.EncodeToString([]byte("notadate|2025-03-10T14:30:45.123456789Z"))
	_, _, err = pagination.DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")

	badCreatedAt := base64.StdEncoding.EncodeToString([]byte("2025-03-10T00:00:00Z|later"))
	_, _, err = pagination.DecodeToken(badCreatedAt)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestEncodeDecodeDateBasedToken(t *testing.T) {
	registeredAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	got, err := pagination.DecodeDateBasedToken(pagination.EncodeDateBasedToken(registeredAt))
	assert.NoError(t, err)
	assert.Equal(t, registeredAt, got)

	now := time.Now().UTC()
	got, err = pagination.DecodeDateBasedToken(pagination.EncodeDateBasedToken(now))
	assert.NoError(t, err)
	assert.True(t, now.Equal(got))

	_, err = pagination.DecodeDateBasedToken("%%%")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = pagination.DecodeDateBasedToken(base64.StdEncoding.EncodeToString([]byte("notadate")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")
}
