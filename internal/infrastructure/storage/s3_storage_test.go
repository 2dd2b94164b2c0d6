package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallet/withdrawal/internal/infrastructure/config"
	"go.uber.org/zap/zaptest"
)

// fakeS3 answers the handful of path-style requests the archive issues
type fakeS3 struct {
	mu       sync.Mutex
	buckets  map[string]bool
	objects  map[string][]byte
	requests []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	switch {
	case key == "" && r.Method == http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case key == "" && r.Method == http.MethodPut:
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case key != "" && r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = body
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestArchive(t *testing.T, endpoint string, opts ...Option) *S3StatementArchive {
	t.Helper()
	cfg := &config.StorageConfig{
		Enabled:         true,
		Bucket:          "statements",
		Region:          "us-east-1",
		Endpoint:        endpoint,
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		PresignExpiry:   10 * time.Minute,
	}
	archive, err := NewS3StatementArchive(context.Background(), cfg, append(opts, WithLogger(zaptest.NewLogger(t)))...)
	require.NoError(t, err)
	return archive
}

func TestNewS3StatementArchive_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3StatementArchive(context.Background(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3StatementArchive(context.Background(), &config.StorageConfig{Enabled: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("defaults presign expiry", func(t *testing.T) {
		archive, err := NewS3StatementArchive(context.Background(), &config.StorageConfig{
			Bucket:          "b",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
		})
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, archive.presignExpiration)
		assert.Equal(t, "b", archive.Bucket())
	})

	t.Run("option overrides configured expiry", func(t *testing.T) {
		archive := newTestArchive(t, "http://localhost:9000", WithPresignExpiration(time.Hour))
		assert.Equal(t, time.Hour, archive.presignExpiration)
	})
}

func TestS3StatementArchive_PresignGet(t *testing.T) {
	archive := newTestArchive(t, "http://localhost:9000")

	t.Run("signs a path-style download url", func(t *testing.T) {
		before := time.Now()
		url, expiresAt, err := archive.PresignGet(context.Background(), "statements/acc/1.csv", 0)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(url, "http://localhost:9000/statements/statements/acc/1.csv?"), url)
		assert.Contains(t, url, "X-Amz-Signature=")
		assert.Contains(t, url, "X-Amz-Expires=600")
		assert.WithinDuration(t, before.Add(10*time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("explicit expiry wins", func(t *testing.T) {
		url, _, err := archive.PresignGet(context.Background(), "k.csv", time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "X-Amz-Expires=60")
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := archive.PresignGet(context.Background(), "", 0)
		assert.ErrorIs(t, err, ErrKeyRequired)
	})
}

func TestS3StatementArchive_EnsureBucketAndPut(t *testing.T) {
	fake := newFakeS3()
	server := httptest.NewServer(fake)
	defer server.Close()

	archive := newTestArchive(t, server.URL)
	ctx := context.Background()

	require.NoError(t, archive.EnsureBucket(ctx))
	assert.True(t, fake.buckets["statements"])

	// second call finds the bucket and does not create it again
	require.NoError(t, archive.EnsureBucket(ctx))

	body := []byte("entry_id,amount\n1,40.00\n")
	require.NoError(t, archive.Put(ctx, "acc/1.csv", body, "text/csv"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, body, fake.objects["statements/acc/1.csv"])

	creates := 0
	for _, r := range fake.requests {
		if r == "PUT /statements" {
			creates++
		}
	}
	assert.Equal(t, 1, creates)
}

func TestS3StatementArchive_Put_Validation(t *testing.T) {
	archive := newTestArchive(t, "http://localhost:9000")
	assert.ErrorIs(t, archive.Put(context.Background(), "", []byte("x"), "text/csv"), ErrKeyRequired)
}
