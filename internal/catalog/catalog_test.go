package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrPunder/grouppicker/internal/groups"
	"github.com/MrPunder/grouppicker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger реализует интерфейс logger.Logger для тестов
type mockLogger struct{}

func (m *mockLogger) Info(msg string)                   {}
func (m *mockLogger) Infof(format string, args ...any)  {}
func (m *mockLogger) Error(msg string)                  {}
func (m *mockLogger) Errorf(format string, args ...any) {}
func (m *mockLogger) Debug(msg string)                  {}
func (m *mockLogger) Debugf(format string, args ...any) {}

var testGroups = []models.Group{
	{ID: "1", Name: "Інформатика", Faculty: "ФІОТ"},
	{ID: "2", Name: "Захист", Faculty: "ФТІ"},
	{ID: "3", Name: "Вступ", Faculty: "ФЛ"},
	{ID: "4", Name: "Іноземна", Faculty: "ФЛ"},
}

type failingFetcher struct {
	calls atomic.Int32
}

func (f *failingFetcher) FetchGroups(ctx context.Context) ([]models.Group, error) {
	f.calls.Add(1)
	return nil, errors.New("network is down")
}

func TestClientFetchGroups(t *testing.T) {
	tests := []struct {
		name   string
		gzip   bool
		token  string
		header string
	}{
		{"Plain", false, "", ""},
		{"Gzip", true, "", ""},
		{"WithToken", false, "secret", "Bearer secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, GroupsPath, r.URL.Path)
				assert.Equal(t, tt.header, r.Header.Get("Authorization"))
				assert.Equal(t, "gzip", r.Header.Get("Accept-Encoding"))

				data, err := json.Marshal(models.GroupList{Data: testGroups})
				assert.NoError(t, err)

				w.Header().Set("Content-Type", "application/json")
				if tt.gzip {
					var buf bytes.Buffer
					zw := gzip.NewWriter(&buf)
					_, _ = zw.Write(data)
					assert.NoError(t, zw.Close())
					w.Header().Set("Content-Encoding", "gzip")
					data = buf.Bytes()
				}
				_, _ = w.Write(data)
			}))
			defer server.Close()

			client := NewClient(server.URL, tt.token, time.Second, &mockLogger{})
			result, err := client.FetchGroups(context.Background())
			require.NoError(t, err)
			assert.Equal(t, testGroups, result)
		})
	}
}

func TestClientFetchGroupsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == GroupsPath {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second, &mockLogger{})
	_, err := client.FetchGroups(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	broken := NewClient(server.URL+"/other", "", time.Second, &mockLogger{})
	_, err = broken.FetchGroups(context.Background())
	assert.Error(t, err)
}

func TestCatalogRefresh(t *testing.T) {
	c := New(StaticFetcher(testGroups), groups.Sorter{}, &mockLogger{})

	loaded, _ := c.Loaded()
	assert.False(t, loaded)
	assert.Empty(t, c.Groups())

	require.NoError(t, c.Refresh(context.Background()))

	loaded, at := c.Loaded()
	assert.True(t, loaded)
	assert.False(t, at.IsZero())

	var ordered []string
	for _, g := range c.Groups() {
		ordered = append(ordered, g.Name)
	}
	assert.Equal(t, []string{"Вступ", "Захист", "Іноземна", "Інформатика"}, ordered)

	found := c.Search("i")
	require.Len(t, found, 2)
	assert.Equal(t, "Іноземна", found[0].Name)

	g, ok := c.Find("2")
	assert.True(t, ok)
	assert.Equal(t, "Захист", g.Name)

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestCatalogRefreshFailureKeepsList(t *testing.T) {
	c := New(&failingFetcher{}, groups.Sorter{}, &mockLogger{})
	c.Replace(testGroups)

	err := c.Refresh(context.Background())
	assert.Error(t, err)
	assert.Len(t, c.Groups(), len(testGroups))
}

func TestCatalogRunStopsWithContext(t *testing.T) {
	fetcher := &failingFetcher{}
	c := New(fetcher, groups.Sorter{}, &mockLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return fetcher.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestCatalogRunRejectsNonPositiveInterval(t *testing.T) {
	fetcher := &failingFetcher{}
	c := New(fetcher, groups.Sorter{}, &mockLogger{})

	for _, interval := range []time.Duration{0, -time.Second} {
		assert.NotPanics(t, func() {
			c.Run(context.Background(), interval)
		})
	}
	assert.Zero(t, fetcher.calls.Load())
}

func TestFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.json")
	data, err := json.Marshal(models.GroupList{Data: testGroups})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	result, err := NewFileFetcher(path).FetchGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testGroups, result)

	_, err = NewFileFetcher(filepath.Join(t.TempDir(), "missing.json")).FetchGroups(context.Background())
	assert.Error(t, err)
}
