// Package tada wires the todo store, the toast notifier and the route table
// into the services that commands, the TUI and the HTTP server share.
package tada

import (
	"github.com/colonyops/tada/internal/core/config"
	"github.com/colonyops/tada/internal/core/route"
	"github.com/colonyops/tada/internal/core/toast"
	"github.com/colonyops/tada/internal/core/todo"
	"github.com/colonyops/tada/internal/data/db"
)

// App is the central entry point for all tada operations.
// Commands, the TUI and the server consume App instead of cherry-picking raw
// dependencies.
type App struct {
	Todos  *TodoService
	Toasts toast.Notifier
	Routes *route.Table

	Config *config.Config
	DB     *db.DB
}

// NewApp constructs an App from explicit dependencies. database may be nil
// when store is not backed by SQLite.
func NewApp(cfg *config.Config, database *db.DB, store todo.Store, toasts toast.Notifier) *App {
	return &App{
		Todos:  NewTodoService(store, toasts),
		Toasts: toasts,
		Routes: route.Default(),
		Config: cfg,
		DB:     database,
	}
}

// Close cancels every pending toast dismissal. The database is owned and
// closed by the caller.
func (a *App) Close() {
	a.Toasts.Close()
}
