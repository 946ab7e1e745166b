package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Model is the language model boundary. Invoke generates a reply to input
// given the prior conversation; Describe reports the active model
// configuration for diagnostics.
type Model interface {
	Invoke(ctx context.Context, history []*ai.Message, input string) (string, error)
	Describe() map[string]any
}

// GenkitModelConfig configures a GenkitModel.
type GenkitModelConfig struct {
	Provider     string
	ModelName    string // fully qualified, e.g. "ollama/llama3"
	SystemPrompt string
	Temperature  float64
	Timeout      time.Duration
}

// GenkitModel generates replies through a genkit-registered model.
type GenkitModel struct {
	g      *genkit.Genkit
	cfg    GenkitModelConfig
	logger *slog.Logger
}

// NewGenkitModel creates a GenkitModel. The model named in cfg must already
// be registered with g.
func NewGenkitModel(g *genkit.Genkit, cfg GenkitModelConfig, logger *slog.Logger) *GenkitModel {
	return &GenkitModel{g: g, cfg: cfg, logger: logger}
}

// Invoke sends the conversation plus the new user input to the model and
// returns the reply text. Timeouts and transport failures are reported as
// ErrModelUnavailable.
func (m *GenkitModel) Invoke(ctx context.Context, history []*ai.Message, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	messages := make([]*ai.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(input)))

	start := time.Now()
	response, err := genkit.Generate(ctx, m.g,
		ai.WithModelName(m.cfg.ModelName),
		ai.WithSystem(m.cfg.SystemPrompt),
		ai.WithMessages(messages...),
		ai.WithConfig(&ai.GenerationCommonConfig{Temperature: m.cfg.Temperature}),
	)
	if err != nil {
		if isTransportErr(err) {
			m.logger.Error("model unreachable",
				"model", m.cfg.ModelName, "elapsed", time.Since(start), "error", err)
			return "", fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		}
		return "", fmt.Errorf("generating reply: %w", err)
	}

	m.logger.Debug("model reply generated",
		"model", m.cfg.ModelName,
		"history_len", len(history),
		"elapsed", time.Since(start))
	return response.Text(), nil
}

// Describe reports the active model configuration.
func (m *GenkitModel) Describe() map[string]any {
	return map[string]any{
		"provider":        m.cfg.Provider,
		"model_name":      m.cfg.ModelName,
		"temperature":     m.cfg.Temperature,
		"timeout_seconds": m.cfg.Timeout.Seconds(),
	}
}

// isTransportErr reports whether err is a connectivity failure rather than a
// generation error.
func isTransportErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
