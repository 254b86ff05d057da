package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/billed/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestS3(t *testing.T, opts ...S3FileStorageOption) *S3FileStorage {
	t.Helper()
	s, err := NewS3FileStorage(context.Background(), &config.StorageConfig{
		Bucket:          "justificatifs",
		Region:          "eu-west-3",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
	}, opts...)
	require.NoError(t, err)
	return s
}

func TestNewS3FileStorage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3FileStorage(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewS3FileStorage(ctx, &config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half a key pair", func(t *testing.T) {
		_, err := NewS3FileStorage(ctx, &config.StorageConfig{Bucket: "b", AccessKeyID: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("defaults", func(t *testing.T) {
		s := newTestS3(t)
		assert.Equal(t, "justificatifs", s.GetBucket())
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
	})

	t.Run("options", func(t *testing.T) {
		logger := zaptest.NewLogger(t)
		s := newTestS3(t, WithLogger(logger), WithPresignExpiration(time.Minute))
		assert.Same(t, logger, s.logger)
		assert.Equal(t, time.Minute, s.presignExpiration)
	})
}

func TestS3FileStorage_GenerateDownloadURL(t *testing.T) {
	s := newTestS3(t)
	ctx := context.Background()

	_, _, err := s.GenerateDownloadURL(ctx, "", time.Minute)
	require.Error(t, err)

	raw, expiresAt, err := s.GenerateDownloadURL(ctx, "bills/a@a/note.jpg", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/justificatifs/bills/a@a/note.jpg", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestS3FileStorage_ResolveURL(t *testing.T) {
	s := newTestS3(t)
	ctx := context.Background()

	for _, ref := range []string{
		"",
		"https://test.storage.tld/v0/b/billable.appspot.com/o/preview.jpg?alt=media",
		"HTTP://cdn.billed.test/a.png",
	} {
		got, err := s.ResolveURL(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, ref, got)
	}

	got, err := s.ResolveURL(ctx, "/bills/preview.jpg")
	require.NoError(t, err)
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/justificatifs/bills/preview.jpg", u.Path)
	assert.Contains(t, u.RawQuery, "X-Amz-Signature=")
}

func TestStaticURLResolver(t *testing.T) {
	r := NewStaticURLResolver("https://files.billed.test/")
	ctx := context.Background()

	tests := []struct {
		ref  string
		want string
	}{
		{"", ""},
		{"https://elsewhere.test/x.jpg", "https://elsewhere.test/x.jpg"},
		{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"bills/x.jpg", "https://files.billed.test/bills/x.jpg"},
		{"/bills/x.jpg", "https://files.billed.test/bills/x.jpg"},
	}
	for _, tt := range tests {
		got, err := r.ResolveURL(ctx, tt.ref)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.ref)
	}

	bare, err := NewStaticURLResolver("").ResolveURL(ctx, "bills/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, "bills/x.jpg", bare)
}
