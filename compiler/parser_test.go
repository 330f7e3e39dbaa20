package compiler

import "testing"

func TestParseSelectStar(t *testing.T) {
	stmt, err := Parse("SELECT * FROM users;")
	if err != nil {
		t.Fatal(err)
	}
	sel, ok := stmt.(*SelectStmt)
	if !ok {
		t.Fatalf("expected *SelectStmt, got %T", stmt)
	}
	if !sel.All || sel.Table != "users" || sel.Where != nil {
		t.Fatalf("unexpected select: %+v", sel)
	}
}

func TestParseSelectColumnsAndWhere(t *testing.T) {
	stmt, err := Parse("SELECT name FROM users WHERE id = 2")
	if err != nil {
		t.Fatal(err)
	}
	sel := stmt.(*SelectStmt)
	if sel.All || len(sel.Columns) != 1 || sel.Columns[0] != "name" {
		t.Fatalf("unexpected columns: %+v", sel)
	}
	if sel.Where == nil || sel.Where.Op != "=" || sel.Where.Left.Name != "id" {
		t.Fatalf("unexpected where clause: %+v", sel.Where)
	}
	c, ok := sel.Where.Right.(Constant)
	if !ok || c.Kind != ConstInt || c.I != 2 {
		t.Fatalf("unexpected right operand: %+v", sel.Where.Right)
	}
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse("INSERT INTO users VALUES (1, 'alice');")
	if err != nil {
		t.Fatal(err)
	}
	ins := stmt.(*InsertStmt)
	if ins.Table != "users" || len(ins.Values) != 2 {
		t.Fatalf("unexpected insert: %+v", ins)
	}
	if ins.Values[0].Kind != ConstInt || ins.Values[0].I != 1 {
		t.Fatalf("unexpected first value: %+v", ins.Values[0])
	}
	if ins.Values[1].Kind != ConstString || ins.Values[1].S != "alice" {
		t.Fatalf("unexpected second value: %+v", ins.Values[1])
	}
}

func TestParseInsertNull(t *testing.T) {
	stmt, err := Parse("INSERT INTO t VALUES (NULL)")
	if err != nil {
		t.Fatal(err)
	}
	ins := stmt.(*InsertStmt)
	if ins.Values[0].Kind != ConstNull {
		t.Fatalf("expected NULL constant, got %+v", ins.Values[0])
	}
}

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse("CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(16));")
	if err != nil {
		t.Fatal(err)
	}
	ct := stmt.(*CreateTableStmt)
	if ct.Table != "users" || len(ct.Columns) != 2 {
		t.Fatalf("unexpected create table: %+v", ct)
	}
	if ct.PrimaryKey != "id" {
		t.Fatalf("expected primary key id, got %q", ct.PrimaryKey)
	}
	if ct.Columns[1].Type != "VARCHAR" || ct.Columns[1].Length != 16 {
		t.Fatalf("unexpected varchar column: %+v", ct.Columns[1])
	}
}

func TestParseDropTable(t *testing.T) {
	stmt, err := Parse("DROP TABLE users")
	if err != nil {
		t.Fatal(err)
	}
	dt := stmt.(*DropTableStmt)
	if dt.Table != "users" {
		t.Fatalf("unexpected drop table: %+v", dt)
	}
}

func TestParseSyntaxErrorNamesExpectedAndObserved(t *testing.T) {
	_, err := Parse("SELECT * FORM users")
	if err == nil {
		t.Fatal("expected syntax error")
	}
	se, ok := err.(*ErrSyntax)
	if !ok {
		t.Fatalf("expected *ErrSyntax, got %T: %v", err, err)
	}
	if se.Expected != "FROM" {
		t.Fatalf("expected error to name FROM as expected token, got %q", se.Expected)
	}
}

func TestParseUnexpectedLeadingToken(t *testing.T) {
	_, err := Parse("UPDATE users SET id = 1")
	if err == nil {
		t.Fatal("expected syntax error for unsupported statement")
	}
}
