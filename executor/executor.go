// Package executor interprets a planner.Plan against the catalog and
// storage facade, the last stage of the pipeline.
package executor

import (
	"fmt"

	"pagedb/catalog"
	"pagedb/compiler"
	"pagedb/dblog"
	"pagedb/planner"
	"pagedb/value"
)

// Catalog is the subset of *catalog.Catalog the executor depends on.
type Catalog interface {
	CreateTable(name string, columns []catalog.Column, primaryKey string) (*catalog.Schema, error)
	Drop(name string) (bool, error)
}

// Storage is the subset of *storage.Engine the executor depends on.
type Storage interface {
	CreateTable(table string, schema *catalog.Schema) (bool, error)
	DropTable(table string) (bool, error)
	InsertRecord(table string, schema *catalog.Schema, values []value.Value) (int32, error)
	ScanRecords(table string, schema *catalog.Schema) ([][]value.Value, error)
}

// Result is the outcome of executing one Plan: exactly one of Rows,
// Affected, or Success is meaningful, depending on the originating
// PlanType.
type Result struct {
	Rows     [][]value.Value
	Affected int
	Success  bool
	Err      error
}

// Executor drives storage and catalog mutations for a single Plan.
type Executor struct {
	cat Catalog
	st  Storage
}

// New returns an Executor wired to cat and st.
func New(cat Catalog, st Storage) *Executor {
	return &Executor{cat: cat, st: st}
}

// Execute interprets plan, dispatching on its Type.
func (e *Executor) Execute(plan *planner.Plan) (Result, error) {
	switch plan.Type {
	case planner.CreateTable:
		return e.executeCreateTable(plan)
	case planner.Insert:
		return e.executeInsert(plan)
	case planner.Select:
		return e.executeSelect(plan)
	case planner.DropTable:
		return e.executeDropTable(plan)
	default:
		return Result{}, fmt.Errorf("executor: unsupported plan type %v", plan.Type)
	}
}

func (e *Executor) executeCreateTable(plan *planner.Plan) (Result, error) {
	columns := make([]catalog.Column, len(plan.NewColumns))
	for i, c := range plan.NewColumns {
		col := catalog.Column{Name: c.Name}
		if c.Type == "VARCHAR" {
			col.Type = catalog.ColVarchar
			col.Length = uint32(c.Length)
		} else {
			col.Type = catalog.ColInt
		}
		columns[i] = col
	}

	schema, err := e.cat.CreateTable(plan.Table, columns, plan.PrimaryKey)
	if err != nil {
		if err == catalog.ErrTableExists {
			return Result{Success: false}, nil
		}
		return Result{}, fmt.Errorf("executor: create table: %w", err)
	}
	ok, err := e.st.CreateTable(plan.Table, schema)
	if err != nil {
		return Result{}, fmt.Errorf("executor: create table: %w", err)
	}
	return Result{Success: ok}, nil
}

func (e *Executor) executeInsert(plan *planner.Plan) (Result, error) {
	schema := plan.Schema
	if len(plan.Values) != len(schema.Columns) {
		return Result{}, fmt.Errorf("executor: insert: expected %d values, got %d", len(schema.Columns), len(plan.Values))
	}
	row := make([]value.Value, len(plan.Values))
	for i, v := range plan.Values {
		col := schema.Columns[i]
		rv, err := validateAndConvert(v, col)
		if err != nil {
			return Result{}, fmt.Errorf("executor: insert: column %s: %w", col.Name, err)
		}
		row[i] = rv
	}

	rid, err := e.st.InsertRecord(plan.Table, schema, row)
	if err != nil {
		return Result{}, fmt.Errorf("executor: insert: %w", err)
	}
	_ = rid
	return Result{Affected: 1}, nil
}

func validateAndConvert(c compiler.Constant, col catalog.Column) (value.Value, error) {
	if c.Kind == compiler.ConstNull {
		return value.NewNull(), nil
	}
	switch col.Type {
	case catalog.ColInt:
		if c.Kind != compiler.ConstInt {
			return value.Value{}, fmt.Errorf("expected INT value")
		}
		return value.NewInt(int32(c.I)), nil
	case catalog.ColVarchar:
		if c.Kind != compiler.ConstString {
			return value.Value{}, fmt.Errorf("expected VARCHAR value")
		}
		return value.NewText(c.S), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported column type %s", col.Type)
	}
}

func (e *Executor) executeSelect(plan *planner.Plan) (Result, error) {
	schema := plan.Schema
	rows, err := e.st.ScanRecords(plan.Table, schema)
	if err != nil {
		return Result{}, fmt.Errorf("executor: select: %w", err)
	}

	var out [][]value.Value
	for _, row := range rows {
		if plan.Where != nil && !evaluateWhere(plan.Where, row, schema) {
			continue
		}
		out = append(out, project(row, schema, plan))
	}
	return Result{Rows: out}, nil
}

// project returns either the full row (for `*`) or the named subset in the
// order listed. A column name that does not resolve is silently dropped;
// semantic analysis should already have rejected this case upstream, but
// the executor filters defensively.
func project(row []value.Value, schema *catalog.Schema, plan *planner.Plan) []value.Value {
	if plan.All {
		return row
	}
	out := make([]value.Value, 0, len(plan.Columns))
	for _, name := range plan.Columns {
		idx := schema.ColumnIndex(name)
		if idx == -1 {
			continue
		}
		out = append(out, row[idx])
	}
	return out
}

// evaluateWhere applies a single binary predicate to row. A NULL operand
// yields false; comparing incompatible types also yields false. This is
// two-valued logic, a deliberate simplification from standard SQL
// three-valued NULL handling.
func evaluateWhere(cond *compiler.BinaryOp, row []value.Value, schema *catalog.Schema) bool {
	idx := schema.ColumnIndex(cond.Left.Name)
	if idx == -1 || idx >= len(row) {
		return false
	}
	left := row[idx]

	var right value.Value
	switch r := cond.Right.(type) {
	case compiler.Constant:
		right = constantToValue(r)
	case compiler.ColumnRef:
		ridx := schema.ColumnIndex(r.Name)
		if ridx == -1 || ridx >= len(row) {
			return false
		}
		right = row[ridx]
	default:
		return false
	}

	if left.IsNull() || right.IsNull() {
		return false
	}
	cmp, incompatible := value.Compare(left, right)
	if incompatible {
		return false
	}
	switch cond.Op {
	case "=":
		return cmp == 0
	case "<>", "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return false
	}
}

func constantToValue(c compiler.Constant) value.Value {
	switch c.Kind {
	case compiler.ConstNull:
		return value.NewNull()
	case compiler.ConstInt:
		return value.NewInt(int32(c.I))
	case compiler.ConstString:
		return value.NewText(c.S)
	default:
		return value.NewNull()
	}
}

func (e *Executor) executeDropTable(plan *planner.Plan) (Result, error) {
	if _, err := e.st.DropTable(plan.Table); err != nil {
		dblog.Default().Warn("drop table failed at storage layer", "table", plan.Table, "error", err)
	}
	ok, err := e.cat.Drop(plan.Table)
	if err != nil {
		return Result{}, fmt.Errorf("executor: drop table: %w", err)
	}
	return Result{Success: ok}, nil
}
