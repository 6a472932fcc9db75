package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finsim/internal/i18n"
	"finsim/internal/model"
)

func sseServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		if req.Message == "" {
			t.Error("request carried no message")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n", line)
			flusher.Flush()
		}
	}))
}

func delta(content string) string {
	return fmt.Sprintf(`data: {"choices":[{"delta":{"content":%q}}]}`, content)
}

func TestRemoteStreamsDeltaChunks(t *testing.T) {
	srv := sseServer(t, []string{
		": keep-alive comment",
		delta("Hello"),
		"",
		delta(", "),
		delta("world"),
		"data: [DONE]",
		delta("ignored after done"),
	})
	defer srv.Close()

	remote := NewRemote(srv.URL, "test-key")
	ch, err := remote.Respond(context.Background(), Request{
		Message:  "hi",
		Language: i18n.English,
		State:    model.AdvisorState{Month: 1},
	})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	if got := collect(t, ch); got != "Hello, world" {
		t.Fatalf("assembled reply = %q, want %q", got, "Hello, world")
	}
}

func TestRemoteSkipsMalformedEvents(t *testing.T) {
	srv := sseServer(t, []string{
		"data: {not json",
		delta("ok"),
		"data: [DONE]",
	})
	defer srv.Close()

	remote := NewRemote(srv.URL, "")
	ch, err := remote.Respond(context.Background(), Request{Message: "hi", Language: i18n.English})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got := collect(t, ch); got != "ok" {
		t.Fatalf("reply = %q, want %q", got, "ok")
	}
}

func TestRemoteUpstreamStatuses(t *testing.T) {
	cases := []struct {
		status  int
		wantErr error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusPaymentRequired, ErrPaymentRequired},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))

		remote := NewRemote(srv.URL, "")
		_, err := remote.Respond(context.Background(), Request{Message: "hi", Language: i18n.English})
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("status %d err = %v, want %v", tc.status, err, tc.wantErr)
		}
		srv.Close()
	}
}

func TestRemoteGenericFailureCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(errorBody{Error: "LOVABLE_API_KEY is not configured"})
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, "")
	_, err := remote.Respond(context.Background(), Request{Message: "hi", Language: i18n.English})
	if err == nil {
		t.Fatal("Respond succeeded, want error")
	}
	if want := "LOVABLE_API_KEY is not configured"; !strings.Contains(err.Error(), want) {
		t.Fatalf("error %q missing upstream detail %q", err, want)
	}
}

func TestNewRemoteEmptyURL(t *testing.T) {
	if r := NewRemote("  ", "key"); r != nil {
		t.Fatal("NewRemote with blank URL returned non-nil client")
	}
}
