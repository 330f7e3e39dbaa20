// Package semantic validates a parsed statement against the catalog before
// it reaches the planner: table/column existence, arity, and per-column
// type compatibility.
package semantic

import (
	"fmt"

	"pagedb/catalog"
	"pagedb/compiler"
)

var (
	ErrTableNotExist   = fmt.Errorf("semantic: table does not exist")
	ErrTableExists     = fmt.Errorf("semantic: table already exists")
	ErrColumnNotExist  = fmt.Errorf("semantic: column does not exist")
	ErrArityMismatch   = fmt.Errorf("semantic: value count does not match column count")
	ErrTypeMismatch    = fmt.Errorf("semantic: value type does not match column type")
	ErrBadColumnType   = fmt.Errorf("semantic: unsupported column type")
	ErrDuplicateColumn = fmt.Errorf("semantic: duplicate column name")
)

// Catalog is the subset of *catalog.Catalog the analyzer depends on.
type Catalog interface {
	TableExists(name string) bool
	GetSchema(name string) (*catalog.Schema, bool)
}

// Analyze validates stmt against cat, returning a descriptive error for the
// first violation found.
func Analyze(cat Catalog, stmt compiler.Stmt) error {
	switch s := stmt.(type) {
	case *compiler.SelectStmt:
		return analyzeSelect(cat, s)
	case *compiler.InsertStmt:
		return analyzeInsert(cat, s)
	case *compiler.CreateTableStmt:
		return analyzeCreateTable(cat, s)
	case *compiler.DropTableStmt:
		return analyzeDropTable(cat, s)
	default:
		return fmt.Errorf("semantic: unsupported statement type %T", stmt)
	}
}

func analyzeSelect(cat Catalog, s *compiler.SelectStmt) error {
	if !cat.TableExists(s.Table) {
		return fmt.Errorf("%w: %s", ErrTableNotExist, s.Table)
	}
	schema, _ := cat.GetSchema(s.Table)
	if !s.All {
		for _, col := range s.Columns {
			if schema.ColumnIndex(col) == -1 {
				return fmt.Errorf("%w: %s", ErrColumnNotExist, col)
			}
		}
	}
	if s.Where != nil {
		return validateExpr(s.Where, schema)
	}
	return nil
}

func validateExpr(e *compiler.BinaryOp, schema *catalog.Schema) error {
	if schema.ColumnIndex(e.Left.Name) == -1 {
		return fmt.Errorf("%w: %s", ErrColumnNotExist, e.Left.Name)
	}
	if ref, ok := e.Right.(compiler.ColumnRef); ok {
		if schema.ColumnIndex(ref.Name) == -1 {
			return fmt.Errorf("%w: %s", ErrColumnNotExist, ref.Name)
		}
	}
	return nil
}

func analyzeInsert(cat Catalog, s *compiler.InsertStmt) error {
	if !cat.TableExists(s.Table) {
		return fmt.Errorf("%w: %s", ErrTableNotExist, s.Table)
	}
	schema, _ := cat.GetSchema(s.Table)
	if len(s.Values) != len(schema.Columns) {
		return fmt.Errorf("%w: expected %d, got %d", ErrArityMismatch, len(schema.Columns), len(s.Values))
	}
	for i, v := range s.Values {
		col := schema.Columns[i]
		if !validateValue(v, col) {
			return fmt.Errorf("%w: column %s", ErrTypeMismatch, col.Name)
		}
	}
	return nil
}

// validateValue admits NULL unconditionally (this dialect has no NOT NULL
// column constraint) and otherwise checks the value's runtime kind against
// the column's declared type.
func validateValue(v compiler.Constant, col catalog.Column) bool {
	if v.Kind == compiler.ConstNull {
		return true
	}
	switch col.Type {
	case catalog.ColInt:
		return v.Kind == compiler.ConstInt
	case catalog.ColVarchar:
		return v.Kind == compiler.ConstString
	default:
		return false
	}
}

func analyzeCreateTable(cat Catalog, s *compiler.CreateTableStmt) error {
	if cat.TableExists(s.Table) {
		return fmt.Errorf("%w: %s", ErrTableExists, s.Table)
	}
	seen := make(map[string]bool, len(s.Columns))
	for _, col := range s.Columns {
		if col.Type != "INT" && col.Type != "VARCHAR" {
			return fmt.Errorf("%w: %s", ErrBadColumnType, col.Type)
		}
		if seen[col.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, col.Name)
		}
		seen[col.Name] = true
	}
	return nil
}

func analyzeDropTable(cat Catalog, s *compiler.DropTableStmt) error {
	if !cat.TableExists(s.Table) {
		return fmt.Errorf("%w: %s", ErrTableNotExist, s.Table)
	}
	return nil
}
