package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
)

// MockCall records a single model invocation for later assertions.
type MockCall struct {
	Input   string
	History []*ai.Message
}

// MockModel is a scripted language model for tests. It satisfies the same
// contract as the production genkit-backed model without any network access.
//
// Responses maps an input substring to a canned reply; the first matching
// entry wins. When nothing matches, Default is returned. A non-nil Err takes
// precedence over everything.
type MockModel struct {
	mu        sync.Mutex
	calls     []MockCall
	Responses map[string]string
	Default   string
	Err       error
}

// Invoke returns the scripted response for input and records the call.
func (m *MockModel) Invoke(ctx context.Context, history []*ai.Message, input string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Input: input, History: history})
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	for pattern, response := range m.Responses {
		if strings.Contains(input, pattern) {
			return response, nil
		}
	}
	if m.Default != "" {
		return m.Default, nil
	}
	return "mock response", nil
}

// Describe reports a fixed mock identity.
func (m *MockModel) Describe() map[string]any {
	return map[string]any{
		"provider":    "mock",
		"model_name":  "mock-model",
		"temperature": 0.0,
	}
}

// Calls returns a copy of all recorded invocations.
func (m *MockModel) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
