package scheme_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/macrat/isdown/internal/scheme"
)

func RunDummyHTTPServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})
	mux.HandleFunc("/no-content", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "error", http.StatusInternalServerError)
	})
	mux.HandleFunc("/redirect/ok", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusFound)
	})
	mux.HandleFunc("/redirect/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/redirect/loop", http.StatusFound)
	})
	mux.HandleFunc("/slow-page", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	})
	mux.HandleFunc("/user-agent", func(w http.ResponseWriter, r *http.Request) {
		if r.UserAgent() != "isdown-test" || r.Method != http.MethodGet {
			http.Error(w, "unexpected request", http.StatusBadRequest)
		}
	})
	return httptest.NewServer(mux)
}

func TestHTTPProbe_Probe(t *testing.T) {
	t.Parallel()

	server := RunDummyHTTPServer()
	t.Cleanup(server.Close)

	tests := []struct {
		Path    string
		OK      bool
		Message string
	}{
		{"/ok", true, `status=200_OK`},
		{"/redirect/ok", true, `status=200_OK`},
		{"/no-content", false, `status=204_No_Content`},
		{"/error", false, `status=500_Internal_Server_Error`},
		{"/redirect/loop", false, `redirect loop detected`},
		{"/slow-page", false, `^probe timed out$`},
		{"/user-agent", true, `status=200_OK`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.Path, func(t *testing.T) {
			t.Parallel()

			p, err := scheme.NewHTTPProbe(server.URL+tt.Path, scheme.HTTPOptions{
				Timeout:   500 * time.Millisecond,
				UserAgent: "isdown-test",
			})
			if err != nil {
				t.Fatalf("failed to prepare probe: %s", err)
			}

			r := p.Probe(context.Background())

			if r.OK != tt.OK {
				t.Errorf("expected OK=%v but got %v: %s", tt.OK, r.OK, r.Message)
			}
			if ok, _ := regexp.MatchString(tt.Message, r.Message); !ok {
				t.Errorf("unexpected message: %q", r.Message)
			}
			if r.Name != "http" {
				t.Errorf("unexpected name: %s", r.Name)
			}
			if r.CheckedAt.IsZero() {
				t.Errorf("checked time is not set")
			}
		})
	}
}

func TestHTTPProbe_Probe_connectionRefused(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	u := server.URL
	server.Close()

	p, err := scheme.NewHTTPProbe(u, scheme.HTTPOptions{Timeout: time.Second})
	if err != nil {
		t.Fatalf("failed to prepare probe: %s", err)
	}

	if r := p.Probe(context.Background()); r.OK {
		t.Errorf("closed server should be down: %+v", r)
	}
}

func TestHTTPProbe_Probe_tls(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	insecure, err := scheme.NewHTTPProbe(server.URL, scheme.HTTPOptions{Timeout: time.Second})
	if err != nil {
		t.Fatalf("failed to prepare probe: %s", err)
	}
	if r := insecure.Probe(context.Background()); !r.OK {
		t.Errorf("self-signed certificate should be accepted without verification: %s", r.Message)
	}

	strict, err := scheme.NewHTTPProbe(server.URL, scheme.HTTPOptions{Timeout: time.Second, TLSVerify: true})
	if err != nil {
		t.Fatalf("failed to prepare probe: %s", err)
	}
	if r := strict.Probe(context.Background()); r.OK {
		t.Errorf("self-signed certificate should be rejected with verification")
	}
}

func TestHTTPProbe_Probe_canceled(t *testing.T) {
	t.Parallel()

	server := RunDummyHTTPServer()
	defer server.Close()

	p, err := scheme.NewHTTPProbe(server.URL+"/slow-page", scheme.HTTPOptions{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("failed to prepare probe: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := p.Probe(ctx)
	if r.OK || r.Message != "probe aborted" {
		t.Errorf("unexpected result: %+v", r)
	}
}

func TestNewHTTPProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		Input  string
		Target string
		Error  error
	}{
		{"https://WatGPU.cs.uwaterloo.ca", "https://watgpu.cs.uwaterloo.ca/", nil},
		{"HTTP://example.com/foo?bar=baz", "http://example.com/foo?bar=baz", nil},
		{"ftp://example.com", "", scheme.ErrUnsupportedScheme},
		{"https:///path", "", scheme.ErrMissingHost},
		{"example.com", "", scheme.ErrUnsupportedScheme},
	}

	for _, tt := range tests {
		p, err := scheme.NewHTTPProbe(tt.Input, scheme.HTTPOptions{})
		if !errors.Is(err, tt.Error) {
			t.Errorf("%s: unexpected error: %v", tt.Input, err)
			continue
		}
		if err == nil && p.Target() != tt.Target {
			t.Errorf("%s: expected target %s but got %s", tt.Input, tt.Target, p.Target())
		}
	}
}
