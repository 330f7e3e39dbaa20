// Package planner lowers a validated AST into a flat, tagged Plan the
// executor interprets directly. Unlike a bytecode virtual machine, there is
// no intermediate instruction tree: a Plan carries exactly the fields its
// PlanType needs.
package planner

import (
	"pagedb/catalog"
	"pagedb/compiler"
)

// PlanType tags which of the four statement kinds a Plan represents.
type PlanType int

const (
	Select PlanType = iota
	Insert
	CreateTable
	DropTable
)

// Plan is the planner's sole output type: a tag plus the fields relevant to
// that tag. Only the fields for the matching PlanType are populated.
type Plan struct {
	Type PlanType

	// Table is set for every PlanType; Schema for Select and Insert.
	Table  string
	Schema *catalog.Schema

	// Select
	All     bool
	Columns []string
	Where   *compiler.BinaryOp

	// Insert
	Values []compiler.Constant

	// CreateTable
	NewColumns []compiler.ColumnDef
	PrimaryKey string
}

// schemaLookup is the subset of *catalog.Catalog the planner depends on.
type schemaLookup interface {
	GetSchema(name string) (*catalog.Schema, bool)
}

// Build lowers a semantically-validated stmt into a Plan, resolving the
// table's current Schema for SELECT and INSERT.
func Build(cat schemaLookup, stmt compiler.Stmt) *Plan {
	switch s := stmt.(type) {
	case *compiler.SelectStmt:
		schema, _ := cat.GetSchema(s.Table)
		return &Plan{
			Type:    Select,
			Table:   s.Table,
			Schema:  schema,
			All:     s.All,
			Columns: s.Columns,
			Where:   s.Where,
		}
	case *compiler.InsertStmt:
		schema, _ := cat.GetSchema(s.Table)
		return &Plan{
			Type:   Insert,
			Table:  s.Table,
			Schema: schema,
			Values: s.Values,
		}
	case *compiler.CreateTableStmt:
		return &Plan{
			Type:       CreateTable,
			Table:      s.Table,
			NewColumns: s.Columns,
			PrimaryKey: s.PrimaryKey,
		}
	case *compiler.DropTableStmt:
		return &Plan{
			Type:  DropTable,
			Table: s.Table,
		}
	}
	return nil
}
