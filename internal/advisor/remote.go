package advisor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	headerTimeout = 10 * time.Second
	maxErrorBody  = 1 << 16 // 64 KB
	doneMarker    = "[DONE]"
)

// Upstream-service errors. These are distinct so the presentation layer can
// render rate-limit and billing failures differently from generic ones.
var (
	// ErrRateLimited indicates the advisory backend returned 429.
	ErrRateLimited = errors.New("advisor: rate limited, try again later")
	// ErrPaymentRequired indicates the advisory backend returned 402.
	ErrPaymentRequired = errors.New("advisor: payment required by the advisory backend")
)

// Remote delegates replies to an external text-generation boundary speaking
// SSE with OpenAI-style delta chunks.
type Remote struct {
	apiURL string
	apiKey string
	http   *http.Client
}

// NewRemote creates a remote responder for the given endpoint. Returns nil
// if the URL is empty.
func NewRemote(apiURL, apiKey string) *Remote {
	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		return nil
	}
	return &Remote{
		apiURL: apiURL,
		apiKey: apiKey,
		http: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: headerTimeout},
		},
	}
}

type chatRequest struct {
	Message   string `json:"message"`
	Language  string `json:"language"`
	UserState any    `json:"userState"`
}

type deltaEvent struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Respond implements Responder. Fragments are emitted as delta chunks
// arrive; the channel closes on the end-of-stream marker. Mid-stream
// transport failures are delivered as a terminal Fragment with Err set.
func (r *Remote) Respond(ctx context.Context, req Request) (<-chan Fragment, error) {
	body, err := json.Marshal(chatRequest{
		Message:   req.Message,
		Language:  string(req.Language),
		UserState: req.State,
	})
	if err != nil {
		return nil, fmt.Errorf("advisor: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("advisor: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if r.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("advisor: request failed: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		_ = resp.Body.Close()
		return nil, ErrRateLimited
	case http.StatusPaymentRequired:
		_ = resp.Body.Close()
		return nil, ErrPaymentRequired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := readErrorDetail(resp.Body)
		_ = resp.Body.Close()
		if detail != "" {
			return nil, fmt.Errorf("advisor: upstream error: %s", detail)
		}
		return nil, fmt.Errorf("advisor: unexpected status %d", resp.StatusCode)
	}

	ch := make(chan Fragment)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := strings.TrimSuffix(scanner.Text(), "\r")
			if line == "" || strings.HasPrefix(line, ":") {
				continue
			}
			data, ok := strings.CutPrefix(line, "data: ")
			if !ok {
				continue
			}
			if strings.TrimSpace(data) == doneMarker {
				return
			}

			var ev deltaEvent
			if err := json.Unmarshal([]byte(data), &ev); err != nil {
				// Partial or malformed event lines are skipped, matching
				// the tolerant consumer the backend expects.
				continue
			}
			for _, choice := range ev.Choices {
				if choice.Delta.Content != "" {
					ch <- Fragment{Text: choice.Delta.Content}
				}
			}
		}
		if err := scanner.Err(); err != nil {
			ch <- Fragment{Err: fmt.Errorf("advisor: reading stream: %w", err)}
		}
	}()

	return ch, nil
}

// readErrorDetail extracts the machine-readable error message from a
// non-success response body, if one is present.
func readErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil {
		return ""
	}
	return eb.Error
}
