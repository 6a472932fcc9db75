package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"finsim/internal/i18n"
	"finsim/internal/model"
)

// scriptedResponder hands out a caller-controlled fragment channel so tests
// can hold a reply open or fail it mid-stream.
type scriptedResponder struct {
	frags chan Fragment
	err   error
}

func (s *scriptedResponder) Respond(_ context.Context, _ Request) (<-chan Fragment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.frags, nil
}

func TestConversationGreet(t *testing.T) {
	conv := NewConversation(NewLocal(), i18n.English)
	conv.Greet(model.AdvisorState{Month: 3, StabilityIndex: 75})

	msgs := conv.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if msgs[0].Role != model.RoleAssistant {
		t.Fatalf("greeting role = %q, want assistant", msgs[0].Role)
	}
	if !strings.Contains(msgs[0].Content, "3") {
		t.Fatalf("greeting %q does not mention month 3", msgs[0].Content)
	}
}

func TestConversationSendEmpty(t *testing.T) {
	conv := NewConversation(NewLocal(), i18n.English)
	if _, err := conv.Send(context.Background(), "   ", model.AdvisorState{}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
	if n := len(conv.Messages()); n != 0 {
		t.Fatalf("messages after rejected send = %d, want 0", n)
	}
}

func TestConversationBusyGuard(t *testing.T) {
	resp := &scriptedResponder{frags: make(chan Fragment)}
	conv := NewConversation(resp, i18n.English)

	done, err := conv.Send(context.Background(), "first", model.AdvisorState{})
	if err != nil {
		t.Fatalf("first Send: %v", err)
	}
	if !conv.InFlight() {
		t.Fatal("InFlight = false during open stream")
	}
	if _, err := conv.Send(context.Background(), "second", model.AdvisorState{}); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Send err = %v, want ErrBusy", err)
	}

	// Clear must not wipe history mid-stream.
	conv.Clear()
	if n := len(conv.Messages()); n == 0 {
		t.Fatal("Clear dropped history while in flight")
	}

	close(resp.frags)
	<-done
	if conv.InFlight() {
		t.Fatal("InFlight = true after stream closed")
	}
}

func TestConversationStreamsIntoOneMessage(t *testing.T) {
	resp := &scriptedResponder{frags: make(chan Fragment, 3)}
	resp.frags <- Fragment{Text: "Keep "}
	resp.frags <- Fragment{Text: "saving "}
	resp.frags <- Fragment{Text: "steadily."}
	close(resp.frags)

	conv := NewConversation(resp, i18n.English)
	done, err := conv.Send(context.Background(), "how are my savings?", model.AdvisorState{})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	<-done

	msgs := conv.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want user + assistant", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "how are my savings?" {
		t.Fatalf("user turn = %+v", msgs[0])
	}
	if got := msgs[1].Content; got != "Keep saving steadily." {
		t.Fatalf("assembled reply = %q", got)
	}
}

func TestConversationFailureBecomesApology(t *testing.T) {
	cases := []struct {
		name   string
		resp   *scriptedResponder
		detail string
	}{
		{"immediate error", &scriptedResponder{err: ErrRateLimited}, ErrRateLimited.Error()},
		{"mid-stream error", func() *scriptedResponder {
			ch := make(chan Fragment, 2)
			ch <- Fragment{Text: "partial"}
			ch <- Fragment{Err: errors.New("connection reset")}
			close(ch)
			return &scriptedResponder{frags: ch}
		}(), "connection reset"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conv := NewConversation(tc.resp, i18n.Russian)
			done, err := conv.Send(context.Background(), "help", model.AdvisorState{})
			if err != nil {
				t.Fatalf("Send surfaced transport failure: %v", err)
			}
			<-done

			msgs := conv.Messages()
			last := msgs[len(msgs)-1]
			if last.Role != model.RoleAssistant {
				t.Fatalf("failure turn role = %q, want assistant", last.Role)
			}
			if want := i18n.Apology(i18n.Russian, tc.detail); last.Content != want {
				t.Fatalf("failure turn = %q, want %q", last.Content, want)
			}
			if conv.InFlight() {
				t.Fatal("InFlight = true after failure")
			}
		})
	}
}

// gatedResponder holds the Respond call itself open until released, standing
// in for a transport waiting on response headers.
type gatedResponder struct {
	release chan struct{}
	frags   chan Fragment
}

func (g *gatedResponder) Respond(_ context.Context, _ Request) (<-chan Fragment, error) {
	<-g.release
	return g.frags, nil
}

func TestConversationSendDoesNotBlockOnTransport(t *testing.T) {
	g := &gatedResponder{release: make(chan struct{}), frags: make(chan Fragment)}
	conv := NewConversation(g, i18n.English)

	// Send must return while Respond is still held open; a synchronous
	// implementation would hang here.
	done, err := conv.Send(context.Background(), "hello", model.AdvisorState{})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !conv.InFlight() {
		t.Fatal("InFlight = false while transport is pending")
	}
	select {
	case <-done:
		t.Fatal("done closed before the transport replied")
	default:
	}

	msgs := conv.Messages()
	if len(msgs) != 1 || msgs[0].Role != model.RoleUser {
		t.Fatalf("user turn not recorded before transport: %+v", msgs)
	}

	close(g.release)
	close(g.frags)
	<-done
	if conv.InFlight() {
		t.Fatal("InFlight = true after stream closed")
	}
}

func TestConversationClearResets(t *testing.T) {
	conv := NewConversation(NewLocal(), i18n.English)
	conv.Greet(model.AdvisorState{Month: 1, StabilityIndex: 75})
	done, err := conv.Send(context.Background(), "hello", model.AdvisorState{})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	<-done

	conv.Clear()
	if n := len(conv.Messages()); n != 0 {
		t.Fatalf("messages after Clear = %d, want 0", n)
	}
}
