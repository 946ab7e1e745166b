// Package app wires configuration, storage, the model provider, and the
// conversation services into a running application.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soorajkrishnan/idiary/internal/chat"
	"github.com/soorajkrishnan/idiary/internal/config"
	"github.com/soorajkrishnan/idiary/internal/memory"
	"github.com/soorajkrishnan/idiary/internal/session"
	"github.com/soorajkrishnan/idiary/internal/store"
)

// App holds the initialized application components.
// Create with Setup; call Close to release resources.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	DBPool *pgxpool.Pool
	Genkit *genkit.Genkit

	Store      *store.Store
	Registry   *session.Registry
	Manager    *session.Manager
	Memory     *memory.Adapter
	Model      *chat.GenkitModel
	Chat       *chat.Service
	Summarizer *chat.Summarizer
	State      *session.StateStore

	dbCleanup   func()
	otelCleanup func()
}

// Close releases resources in reverse initialization order.
func (a *App) Close() error {
	if a.dbCleanup != nil {
		a.dbCleanup()
		a.dbCleanup = nil
	}
	if a.otelCleanup != nil {
		a.otelCleanup()
		a.otelCleanup = nil
	}
	return nil
}
