package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soorajkrishnan/idiary/internal/log"
	"github.com/soorajkrishnan/idiary/internal/testutil"
)

func TestSummarizer_Summarize(t *testing.T) {
	mem := newFakeMemory()
	mem.histories["s1"] = []*ai.Message{
		ai.NewUserMessage(ai.NewTextPart("hi im bob")),
		{Role: ai.RoleModel, Content: []*ai.Part{ai.NewTextPart("hello bob")}},
	}

	model := &testutil.MockModel{Default: "Bob introduced himself."}
	s := NewSummarizer(model, mem, log.NewNop())

	summary, err := s.Summarize(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Bob introduced himself.", summary)

	calls := model.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].History, "transcript goes in as prompt text, not history")
	assert.Contains(t, calls[0].Input, "under 50 words")
	assert.Contains(t, calls[0].Input, "User: hi im bob")
	assert.Contains(t, calls[0].Input, "Assistant: hello bob")
}

func TestSummarizer_EmptySession(t *testing.T) {
	model := &testutil.MockModel{}
	s := NewSummarizer(model, newFakeMemory(), log.NewNop())

	_, err := s.Summarize(context.Background(), "empty")
	require.ErrorIs(t, err, ErrNothingToSummarize)
	assert.Empty(t, model.Calls(), "empty session must not invoke the model")
}

func TestSummarizer_ModelFailure(t *testing.T) {
	mem := newFakeMemory()
	mem.histories["s1"] = []*ai.Message{ai.NewUserMessage(ai.NewTextPart("hi"))}

	model := &testutil.MockModel{Err: ErrModelUnavailable}
	s := NewSummarizer(model, mem, log.NewNop())

	_, err := s.Summarize(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrSummarizationFailed)
	assert.ErrorIs(t, err, ErrModelUnavailable, "cause stays in the chain")
}

func TestSummarizer_EmptyModelOutput(t *testing.T) {
	mem := newFakeMemory()
	mem.histories["s1"] = []*ai.Message{ai.NewUserMessage(ai.NewTextPart("hi"))}

	s := NewSummarizer(&testutil.MockModel{Default: "   "}, mem, log.NewNop())

	_, err := s.Summarize(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrSummarizationFailed)
}

func TestSummarizer_TrimsWhitespace(t *testing.T) {
	mem := newFakeMemory()
	mem.histories["s1"] = []*ai.Message{ai.NewUserMessage(ai.NewTextPart("hi"))}

	s := NewSummarizer(&testutil.MockModel{Default: "\n A summary. \n"}, mem, log.NewNop())

	summary, err := s.Summarize(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "A summary.", summary)
}

func TestFlattenTranscript(t *testing.T) {
	history := []*ai.Message{
		{Role: ai.RoleSystem, Content: []*ai.Part{ai.NewTextPart("be helpful")}},
		ai.NewUserMessage(ai.NewTextPart("question")),
		{Role: ai.RoleModel, Content: []*ai.Part{ai.NewTextPart("answer")}},
	}

	got := flattenTranscript(history)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "System: be helpful", lines[0])
	assert.Equal(t, "User: question", lines[1])
	assert.Equal(t, "Assistant: answer", lines[2])
}
