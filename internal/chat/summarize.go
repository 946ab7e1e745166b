package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
)

const summaryPrompt = "Write a concise summary in under 50 words of the following chat, Just keep the summary:"

// HistoryProvider loads a session's transcript.
type HistoryProvider interface {
	History(ctx context.Context, sessionID string) ([]*ai.Message, error)
}

// Summarizer produces on-demand session summaries. Summaries are derived,
// never stored: they are recomputed from the live transcript each time.
type Summarizer struct {
	model   Model
	history HistoryProvider
	logger  *slog.Logger
}

// NewSummarizer creates a Summarizer.
func NewSummarizer(model Model, history HistoryProvider, logger *slog.Logger) *Summarizer {
	return &Summarizer{model: model, history: history, logger: logger}
}

// Summarize generates a summary of the session's transcript. An empty
// session returns ErrNothingToSummarize without invoking the model. Model
// failures are reported as ErrSummarizationFailed with the cause attached.
func (s *Summarizer) Summarize(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id must not be empty")
	}

	history, err := s.history.History(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	if len(history) == 0 {
		return "", ErrNothingToSummarize
	}

	// The transcript goes in as plain text rather than as message history
	// so the model summarizes the conversation instead of continuing it.
	input := summaryPrompt + "\n\n" + flattenTranscript(history)

	summary, err := s.model.Invoke(ctx, nil, input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarizationFailed, err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("%w: model returned an empty summary", ErrSummarizationFailed)
	}

	s.logger.Debug("session summarized", "session_id", sessionID, "messages", len(history))
	return summary, nil
}

func flattenTranscript(history []*ai.Message) string {
	var b strings.Builder
	for _, msg := range history {
		b.WriteString(labelFor(msg.Role))
		b.WriteString(": ")
		for _, part := range msg.Content {
			b.WriteString(part.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func labelFor(role ai.Role) string {
	switch role {
	case ai.RoleUser:
		return "User"
	case ai.RoleModel:
		return "Assistant"
	case ai.RoleSystem:
		return "System"
	default:
		return string(role)
	}
}
