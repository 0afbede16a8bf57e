// Package assistant owns one conversation: history, the system prompt
// teaching the directive protocol, model calls and the final
// reply-plus-report composition.
package assistant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Chiyang001/ZhiLing-AI/internal/ollama"
)

// Chatter is the model backend. Satisfied by ollama.Client.
type Chatter interface {
	Chat(ctx context.Context, model string, messages []ollama.Message, systemPrompt string) (string, error)
	ChatStream(ctx context.Context, model string, messages []ollama.Message, systemPrompt string, onChunk func(string)) (string, error)
}

// Dispatcher executes the directives inside one model reply and returns
// the report, empty when the reply had nothing to execute.
type Dispatcher interface {
	Dispatch(text string) string
}

// Transcript persists chat messages. Satisfied by store.Store.
type Transcript interface {
	Append(sessionID, role, content string) error
}

// Session is one conversation with one model. Not safe for concurrent
// use; the chat loop is strictly sequential.
type Session struct {
	client     Chatter
	dispatcher Dispatcher
	transcript Transcript
	log        *zap.Logger

	id         string
	model      string
	maxHistory int
	history    []ollama.Message
}

// NewSession builds a session. transcript may be nil to skip
// persistence; maxHistory <= 0 falls back to 20 messages.
func NewSession(client Chatter, dispatcher Dispatcher, transcript Transcript, model string, maxHistory int, log *zap.Logger) *Session {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		client:     client,
		dispatcher: dispatcher,
		transcript: transcript,
		log:        log,
		id:         uuid.NewString(),
		model:      model,
		maxHistory: maxHistory,
	}
}

// ID returns the session identifier used for transcript rows.
func (s *Session) ID() string { return s.id }

// Model returns the active model name.
func (s *Session) Model() string { return s.model }

// SetModel switches the model for subsequent turns.
func (s *Session) SetModel(model string) { s.model = model }

// History returns the current in-memory conversation.
func (s *Session) History() []ollama.Message { return s.history }

// Process runs one blocking turn: append the input, call the model,
// execute any directives, and return reply plus report separated by a
// blank line (the reply alone when there was nothing to execute).
func (s *Session) Process(ctx context.Context, input string) (string, error) {
	reply, report, err := s.turn(ctx, input, func(messages []ollama.Message) (string, error) {
		return s.client.Chat(ctx, s.model, messages, systemPrompt)
	})
	if err != nil {
		return "", err
	}
	return compose(reply, report), nil
}

// ProcessStream runs one streaming turn. onChunk receives reply
// fragments as they arrive; the returned reply and report are handed
// back separately so the caller can render them differently.
func (s *Session) ProcessStream(ctx context.Context, input string, onChunk func(string)) (reply, report string, err error) {
	return s.turn(ctx, input, func(messages []ollama.Message) (string, error) {
		return s.client.ChatStream(ctx, s.model, messages, systemPrompt, onChunk)
	})
}

func (s *Session) turn(ctx context.Context, input string, call func([]ollama.Message) (string, error)) (string, string, error) {
	if s.model == "" {
		return "", "", fmt.Errorf("未选择模型")
	}

	s.history = append(s.history, ollama.Message{Role: "user", Content: input})
	s.persist("user", input)

	reply, err := call(s.history)
	if err != nil {
		// The failed turn must not leave an orphaned user message.
		s.history = s.history[:len(s.history)-1]
		return "", "", err
	}

	s.history = append(s.history, ollama.Message{Role: "assistant", Content: reply})
	s.persist("assistant", reply)
	s.trim()

	report := s.dispatcher.Dispatch(reply)
	return reply, report, nil
}

func compose(reply, report string) string {
	if report == "" {
		return reply
	}
	return reply + "\n\n" + report
}

// trim drops the oldest complete user/assistant pairs once the history
// exceeds the cap, never an odd number of messages.
func (s *Session) trim() {
	if len(s.history) <= s.maxHistory {
		return
	}
	excess := len(s.history) - s.maxHistory
	if excess%2 != 0 {
		excess++
	}
	s.history = s.history[excess:]
}

func (s *Session) persist(role, content string) {
	if s.transcript == nil {
		return
	}
	if err := s.transcript.Append(s.id, role, content); err != nil {
		s.log.Warn("assistant: transcript write failed", zap.Error(err))
	}
}

// Clear wipes the in-memory history and starts a fresh transcript
// session.
func (s *Session) Clear() string {
	s.history = nil
	s.id = uuid.NewString()
	return "✅ 对话历史已清空"
}

// Summary describes the in-memory history.
func (s *Session) Summary() string {
	if len(s.history) == 0 {
		return "📝 当前没有对话历史"
	}
	var users, assistants int
	for _, m := range s.history {
		switch m.Role {
		case "user":
			users++
		case "assistant":
			assistants++
		}
	}
	return fmt.Sprintf("📝 对话历史摘要:\n- 用户消息: %d 条\n- 助手回复: %d 条\n- 总计: %d 条消息",
		users, assistants, len(s.history))
}
