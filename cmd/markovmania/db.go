package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/CTAG07/MarkovMania/pkg/history"
)

// openHistoryDB opens the SQLite database that holds the generation history and
// the API keys, and makes sure both schemas exist.
func openHistoryDB(driver, dataSource string) (*sql.DB, error) {
	db, err := sql.Open(driver, dataSource)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; queue writers in the pool instead of
	// failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = history.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup history schema: %w", err)
	}
	if err = setupAuthSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup auth schema: %w", err)
	}
	return db, nil
}

// openHistory creates the data directory, opens the database and prepares the
// history store. Callers close the store before the database.
func openHistory(cfg *ServerConfig, logger *slog.Logger) (*sql.DB, *history.Store, error) {
	if err := ensureDataDir(cfg); err != nil {
		return nil, nil, err
	}

	db, err := initDB(cfg.HistoryDatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store, err := history.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare history store: %w", err)
	}
	store.SetLogger(logger)
	return db, store, nil
}
