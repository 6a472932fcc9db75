package advisor

import (
	"context"
	"strings"

	"finsim/internal/i18n"
)

// Local is the offline keyword-heuristic responder. It matches the message
// against localized keyword sets and serves one of three canned tips,
// falling back to a generic reply built from the current state.
type Local struct{}

// NewLocal returns the local heuristic responder.
func NewLocal() Local {
	return Local{}
}

// Respond implements Responder. The full reply is delivered as a single
// fragment since there is nothing to stream.
func (Local) Respond(_ context.Context, req Request) (<-chan Fragment, error) {
	reply := localReply(req)

	ch := make(chan Fragment, 1)
	ch <- Fragment{Text: reply}
	close(ch)
	return ch, nil
}

func localReply(req Request) string {
	msg := strings.ToLower(req.Message)

	for _, topic := range []i18n.Topic{i18n.TopicSavings, i18n.TopicStability, i18n.TopicStress} {
		for _, kw := range i18n.Keywords(req.Language, topic) {
			if strings.Contains(msg, kw) {
				return i18n.Tip(req.Language, topic)
			}
		}
	}

	return i18n.GenericReply(req.Language, req.State.Month, req.State.StabilityIndex)
}
