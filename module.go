// Package statsbot is a chat-command-driven reporting engine. Callers
// mention the bot with a named query and optional arguments; the engine
// resolves the command against an operator-curated catalog of parameterized
// SQL queries, executes it against the forum backup database, and replies
// with a text table or a hosted chart.
//
// statsbot is an embedded component: the host bot process owns the chat
// transport and feeds notifications into Module.HandleNotification.
package statsbot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/forumbot/statsbot/pkg/bot"
	"github.com/forumbot/statsbot/pkg/catalog"
	"github.com/forumbot/statsbot/pkg/chart"
	"github.com/forumbot/statsbot/pkg/command"
	"github.com/forumbot/statsbot/pkg/config"
	"github.com/forumbot/statsbot/pkg/database"
	"github.com/forumbot/statsbot/pkg/logging"
	"github.com/forumbot/statsbot/pkg/render"
)

// Module is a fully wired reporting engine.
type Module struct {
	cfg        *config.Config
	db         *database.DB
	dispatcher *bot.Dispatcher
	reloader   *catalog.Reloader
	logger     *zap.Logger
}

// New composes a Module: it loads the initial catalog snapshot, connects the
// database pool and wires the dispatcher to the given transport. The catalog
// must parse at startup; later reload failures only log and keep the
// previous snapshot.
func New(ctx context.Context, cfg *config.Config, transport bot.Transport, logger *zap.Logger) (*Module, error) {
	initial, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load initial catalog: %w", err)
	}
	catalogs := catalog.NewStore(initial)

	connStr := cfg.Database.ConnectionString()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connStr,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database %s: %w",
			logging.SanitizeConnectionString(connStr), err)
	}

	charts := chart.NewPlotlyClient(cfg.Plotly.BaseURL, cfg.Plotly.Username, cfg.Plotly.APIKey, logger)
	renderer := render.NewRenderer(charts, logger)

	resolver := command.NewResolver()
	resolver.OverrideTrustLevel = cfg.Policy.OverrideTrustLevel

	dispatcher := bot.NewDispatcher(
		command.NewParser(cfg.BotName),
		resolver,
		catalogs,
		database.NewQuerier(db),
		renderer,
		transport,
		cfg.Policy.InvocationTimeout,
		logger,
	)

	logger.Info("statsbot module ready",
		zap.String("bot_name", cfg.BotName),
		zap.Int("queries", initial.Len()),
		zap.Duration("catalog_reload_interval", cfg.Catalog.ReloadInterval))

	return &Module{
		cfg:        cfg,
		db:         db,
		dispatcher: dispatcher,
		reloader:   catalog.NewReloader(catalogs, cfg.Catalog.Path, cfg.Catalog.ReloadInterval, logger),
		logger:     logger,
	}, nil
}

// HandleNotification feeds one transport event into the engine. It returns
// true when the notification was acknowledged, so the host can suppress
// duplicate delivery.
func (m *Module) HandleNotification(ctx context.Context, n *bot.Notification) bool {
	return m.dispatcher.HandleNotification(ctx, n)
}

// Run blocks reloading the catalog on its configured interval until ctx is
// cancelled.
func (m *Module) Run(ctx context.Context) {
	m.reloader.Run(ctx)
}

// Close waits for in-flight invocations and releases the database pool.
func (m *Module) Close() {
	m.dispatcher.Wait()
	m.db.Close()
}
