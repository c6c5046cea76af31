package chat

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"menuchat/internal/core"
	"menuchat/internal/llm"
	"menuchat/internal/restaurant"
)

// maxTurns bounds how much history is sent with each question.
const maxTurns = 20

type Service struct {
	store *restaurant.Store
	llm   llm.Client
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store *restaurant.Store, client llm.Client, log *zap.Logger, now func() time.Time) *Service {
	return &Service{store: store, llm: client, log: log, now: now}
}

// Context returns the snapshot a chat about id would be answered from.
func (s *Service) Context(id string) (Context, error) {
	rec, ok := s.store.Get(id)
	if !ok {
		return Context{}, core.NotFound("restaurant")
	}
	return BuildContext(rec, s.now()), nil
}

// Reply answers the last user turn of history. Once the restaurant exists
// it always produces a reply; a failed model call yields a degraded one.
func (s *Service) Reply(ctx context.Context, id string, history []llm.Message) (Reply, error) {
	snapshot, err := s.Context(id)
	if err != nil {
		return Reply{}, err
	}

	msgs := cleanHistory(history)
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != llm.RoleUser {
		return Reply{}, core.Validation("a user message is required")
	}

	contextJSON, err := json.Marshal(snapshot)
	if err != nil {
		return Reply{}, eris.Wrap(err, "encode chat context")
	}

	text, callErr := s.llm.Complete(ctx, llm.Request{
		System:      llm.BuildChatSystemPrompt(string(contextJSON)),
		Messages:    msgs,
		Temperature: 0.3,
		MaxTokens:   512,
	})

	reply := BuildReply(text, callErr, snapshot.Record)
	if reply.Degraded {
		s.log.Warn("chat degraded to fallback reply",
			zap.String("restaurant_id", id),
			zap.Error(callErr),
		)
	}
	return reply, nil
}

// cleanHistory drops empty and unknown-role turns and keeps the most
// recent maxTurns.
func cleanHistory(in []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(in))
	for _, m := range in {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if role != llm.RoleUser && role != llm.RoleAssistant {
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	if len(out) > maxTurns {
		out = out[len(out)-maxTurns:]
	}
	return out
}
