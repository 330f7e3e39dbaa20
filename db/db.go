// Package db serves as an interface for the database where raw SQL goes in
// and a structured Result comes out. db is intended to be consumed by things
// like a driver, a CLI, or a program embedding the engine directly.
package db

import (
	"fmt"

	"github.com/google/uuid"

	"pagedb/buffer"
	"pagedb/catalog"
	"pagedb/compiler"
	"pagedb/dblog"
	"pagedb/executor"
	"pagedb/pager"
	"pagedb/planner"
	"pagedb/semantic"
	"pagedb/storage"
)

// DefaultBufferCapacity is used when Open is called with capacity <= 0.
const DefaultBufferCapacity = buffer.DefaultCapacity

// DB is the top-level engine handle: one per data directory, driving the
// full Lex -> Parse -> Analyze -> Build -> Execute pipeline for every
// statement submitted to it.
type DB struct {
	cat *catalog.Catalog
	st  *storage.Engine
	ex  *executor.Executor
}

// Open loads (or initializes) the catalog and buffer pool rooted at
// dataDir and returns a ready-to-use DB. capacity <= 0 selects
// DefaultBufferCapacity.
func Open(dataDir string, capacity int) (*DB, error) {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	fm, err := pager.NewFileManager(dataDir)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	cat, err := catalog.Load(dataDir)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	pool := buffer.New(fm, capacity)
	st := storage.New(fm, pool)
	ex := executor.New(cat, st)
	return &DB{cat: cat, st: st, ex: ex}, nil
}

// Execute runs a single SQL statement through the full pipeline, stamping
// it with a correlation id used only for log correlation.
func (db *DB) Execute(sql string) executor.Result {
	id := uuid.NewString()
	log := dblog.Default().With("correlation_id", id)

	stmt, err := compiler.Parse(sql)
	if err != nil {
		log.Info("statement failed", "stage", "parse", "error", err)
		return executor.Result{Err: err}
	}
	if err := semantic.Analyze(db.cat, stmt); err != nil {
		log.Info("statement failed", "stage", "semantic", "error", err)
		return executor.Result{Err: err}
	}
	plan := planner.Build(db.cat, stmt)
	result, err := db.ex.Execute(plan)
	if err != nil {
		log.Info("statement failed", "stage", "execute", "error", err)
		return executor.Result{Err: err}
	}
	log.Info("statement executed", "plan_type", plan.Type, "table", plan.Table, "rows", len(result.Rows), "affected", result.Affected)
	return result
}
