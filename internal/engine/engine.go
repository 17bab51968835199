package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	_ "github.com/marcboeker/go-duckdb/v2"

	"qv/internal/config"
	"qv/internal/logging"
	"qv/internal/source"
)

// Executor runs queries through an in-process DuckDB database. Each
// Execute call uses a fresh in-memory database; nothing persists between
// invocations except the materialized result file.
type Executor struct {
	cfg    config.Engine
	logger *slog.Logger
}

// New constructs an executor with the given engine settings.
func New(cfg config.Engine, logger *slog.Logger) *Executor {
	return &Executor{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "engine"),
	}
}

// Execute registers the request's source, runs its query, and writes the
// full result set as Parquet to outPath. All failures wrap ErrExecution
// and carry the engine's message.
func (e *Executor) Execute(ctx context.Context, req source.Request, outPath string) error {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return wrapExec("open database", err)
	}
	defer db.Close()

	// A single connection keeps settings, extensions, and the registered
	// view on the same session.
	conn, err := db.Conn(ctx)
	if err != nil {
		return wrapExec("acquire connection", err)
	}
	defer conn.Close()

	if err := e.applySettings(ctx, conn); err != nil {
		return err
	}
	if req.Remote() {
		if err := e.setupRemote(ctx, conn, req.Scheme); err != nil {
			return err
		}
	}

	e.logger.Debug("registering source",
		logging.String("locator", req.Locator),
		logging.String("format", string(req.Format)),
		logging.Bool("folder", req.Folder))
	if _, err := conn.ExecContext(ctx, viewDDL(req)); err != nil {
		return wrapExec("register source "+req.Locator, err)
	}

	e.logger.Debug("executing query", logging.String("query", req.Query))
	if _, err := conn.ExecContext(ctx, copySQL(req.Query, outPath)); err != nil {
		return wrapExec("execute query", err)
	}
	return nil
}

func (e *Executor) applySettings(ctx context.Context, conn *sql.Conn) error {
	if e.cfg.Threads > 0 {
		if _, err := conn.ExecContext(ctx, "SET threads = "+strconv.Itoa(e.cfg.Threads)); err != nil {
			return wrapExec("set threads", err)
		}
	}
	if e.cfg.MemoryLimit != "" {
		stmt := fmt.Sprintf("SET memory_limit = %s", quoteLiteral(e.cfg.MemoryLimit))
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return wrapExec("set memory limit", err)
		}
	}
	return nil
}
