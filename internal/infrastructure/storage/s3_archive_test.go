package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(endpoint string) *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:           true,
		Endpoint:          endpoint,
		Region:            "us-east-1",
		Bucket:            "exports",
		AccessKey:         "test-key",
		SecretKey:         "test-secret",
		UsePathStyle:      true,
		PresignExpiration: 10 * time.Minute,
	}
}

func TestNewS3ExportArchive_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.StorageConfig{AccessKey: "k", SecretKey: "s"}, "bucket is required"},
		{"missing access key", &config.StorageConfig{Bucket: "b", SecretKey: "s"}, "access key is required"},
		{"missing secret key", &config.StorageConfig{Bucket: "b", AccessKey: "k"}, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ExportArchive(tt.cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	t.Run("valid config", func(t *testing.T) {
		a, err := NewS3ExportArchive(validConfig("localhost:9000"))
		require.NoError(t, err)
		assert.Equal(t, "exports", a.Bucket())
		assert.Equal(t, 10*time.Minute, a.presignExpiration)
	})

	t.Run("default presign expiration", func(t *testing.T) {
		cfg := validConfig("localhost:9000")
		cfg.PresignExpiration = 0
		a, err := NewS3ExportArchive(cfg)
		require.NoError(t, err)
		assert.Equal(t, defaultPresignExpiration, a.presignExpiration)
	})
}

func TestS3ExportArchive_DownloadURL(t *testing.T) {
	a, err := NewS3ExportArchive(validConfig("localhost:9000"))
	require.NoError(t, err)

	link, expiresAt, err := a.DownloadURL(context.Background(), "exports/c1/debts.csv", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/exports/exports/c1/debts.csv", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)

	_, _, err = a.DownloadURL(context.Background(), "", 0)
	assert.ErrorIs(t, err, ErrKeyRequired)
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func newFakeS3(t *testing.T) (*fakeS3, *httptest.Server) {
	t.Helper()
	f := &fakeS3{objects: map[string]string{}, types: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			f.objects[r.URL.Path] = string(body)
			f.types[r.URL.Path] = r.Header.Get("Content-Type")
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodHead:
			if r.URL.Path == "/exports" || r.URL.Path == "/exports/" {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func TestS3ExportArchive_Put(t *testing.T) {
	fake, srv := newFakeS3(t)
	a, err := NewS3ExportArchive(validConfig(srv.URL))
	require.NoError(t, err)

	csv := "id,client_id\n1,2\n"
	require.NoError(t, a.Put(context.Background(), "exports/c1/debts.csv", []byte(csv), "text/csv"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	var stored string
	for path, body := range fake.objects {
		if strings.HasSuffix(path, "/exports/c1/debts.csv") {
			stored = body
			assert.Equal(t, "text/csv", fake.types[path])
		}
	}
	assert.Contains(t, stored, csv)

	assert.ErrorIs(t, a.Put(context.Background(), "", nil, "text/csv"), ErrKeyRequired)
}

func TestS3ExportArchive_Ping(t *testing.T) {
	_, srv := newFakeS3(t)
	a, err := NewS3ExportArchive(validConfig(srv.URL))
	require.NoError(t, err)
	assert.NoError(t, a.Ping(context.Background()))
	assert.NoError(t, a.EnsureBucket(context.Background()))

	cfg := validConfig(srv.URL)
	cfg.Bucket = "missing"
	missing, err := NewS3ExportArchive(cfg)
	require.NoError(t, err)
	assert.Error(t, missing.Ping(context.Background()))
}
