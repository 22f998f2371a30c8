package influxdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-confgen/internal/infrastructure/config"
)

// fakeServer answers the two endpoints the client uses and records
// line-protocol bodies.
type fakeServer struct {
	*httptest.Server
	mu     sync.Mutex
	bodies []string
	query  string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/v2/write", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body) //nolint:errcheck // test server
		fs.mu.Lock()
		fs.bodies = append(fs.bodies, string(body))
		fs.query = r.URL.RawQuery
		fs.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled: true,
		URL:     url,
		Token:   "test-token",
		Org:     "graylogic",
		Bucket:  "confgen",
	}
}

func TestConnectDisabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Enabled = false

	_, err := Connect(context.Background(), cfg)
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnectUnreachable(t *testing.T) {
	_, err := Connect(context.Background(), testConfig("http://127.0.0.1:1"))
	if !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestWritePoint(t *testing.T) {
	srv := newFakeServer(t)

	client, err := Connect(context.Background(), testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if !client.IsConnected() {
		t.Fatal("IsConnected() = false, want true")
	}

	err = client.WritePoint(context.Background(), "confgen_run",
		map[string]string{"site": "home"},
		map[string]interface{}{"things": 3},
		time.Unix(1, 0))
	if err != nil {
		t.Fatalf("WritePoint() error = %v", err)
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.bodies) != 1 {
		t.Fatalf("server received %d writes, want 1", len(srv.bodies))
	}
	if !strings.HasPrefix(srv.bodies[0], "confgen_run,site=home things=3i") {
		t.Errorf("line protocol = %q", srv.bodies[0])
	}
	if !strings.Contains(srv.query, "bucket=confgen") {
		t.Errorf("query = %q, want bucket=confgen", srv.query)
	}
}

func TestWritePointAfterClose(t *testing.T) {
	srv := newFakeServer(t)

	client, err := Connect(context.Background(), testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	err = client.WritePoint(context.Background(), "confgen_run", nil, map[string]interface{}{"v": 1}, time.Now())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("WritePoint() error = %v, want ErrNotConnected", err)
	}
}

func TestCloseNil(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v", err)
	}
}
