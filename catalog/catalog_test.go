package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func usersColumns() []Column {
	return []Column{
		{Name: "id", Type: ColInt},
		{Name: "name", Type: ColVarchar, Length: 16},
	}
}

func TestLoadMissingFileYieldsEmptyCatalog(t *testing.T) {
	cat, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cat.TableExists("users") {
		t.Fatal("expected an empty catalog")
	}
}

func TestLoadCorruptFileYieldsEmptyCatalog(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "catalog.json"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cat.TableExists("users") {
		t.Fatal("expected corrupt catalog.json to reset to empty, not error")
	}
}

func TestCreateTableThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cat, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cat.CreateTable("users", usersColumns(), "id"); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	schema, ok := reloaded.GetSchema("users")
	if !ok {
		t.Fatal("expected users to survive a reload")
	}
	if schema.PrimaryKey != "id" || len(schema.Columns) != 2 {
		t.Fatalf("unexpected reloaded schema: %+v", schema)
	}
}

func TestCreateTableDuplicateReturnsErrTableExists(t *testing.T) {
	cat, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cat.CreateTable("users", usersColumns(), "id"); err != nil {
		t.Fatal(err)
	}
	if _, err := cat.CreateTable("users", usersColumns(), "id"); err != ErrTableExists {
		t.Fatalf("expected ErrTableExists, got %v", err)
	}
}

func TestTableExists(t *testing.T) {
	cat, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cat.TableExists("users") {
		t.Fatal("expected users not to exist yet")
	}
	if _, err := cat.CreateTable("users", usersColumns(), "id"); err != nil {
		t.Fatal(err)
	}
	if !cat.TableExists("users") {
		t.Fatal("expected users to exist after creation")
	}
}

func TestDropRemovesTableAndPersists(t *testing.T) {
	dir := t.TempDir()
	cat, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cat.CreateTable("users", usersColumns(), "id"); err != nil {
		t.Fatal(err)
	}

	removed, err := cat.Drop("users")
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Fatal("expected drop to report removal")
	}
	if cat.TableExists("users") {
		t.Fatal("expected users to be gone after drop")
	}

	reloaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.TableExists("users") {
		t.Fatal("expected drop to persist across reload")
	}
}

func TestDropMissingTableReportsNoRemoval(t *testing.T) {
	cat, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	removed, err := cat.Drop("nope")
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Fatal("expected dropping a missing table to report false")
	}
}

func TestColumnIndexAndColumnByName(t *testing.T) {
	schema := &Schema{TableName: "users", Columns: usersColumns()}
	if schema.ColumnIndex("name") != 1 {
		t.Fatalf("expected name at index 1, got %d", schema.ColumnIndex("name"))
	}
	if schema.ColumnIndex("bogus") != -1 {
		t.Fatal("expected -1 for an unknown column")
	}
	col, ok := schema.ColumnByName("id")
	if !ok || col.Type != ColInt {
		t.Fatalf("unexpected column lookup: %+v ok=%v", col, ok)
	}
	if _, ok := schema.ColumnByName("bogus"); ok {
		t.Fatal("expected ColumnByName to report false for an unknown column")
	}
}

func TestRecordSize(t *testing.T) {
	schema := &Schema{TableName: "users", Columns: usersColumns()}
	if got := schema.RecordSize(); got != 4+16 {
		t.Fatalf("expected record size 20, got %d", got)
	}
}

func TestTypeSize(t *testing.T) {
	intCol := Column{Type: ColInt}
	if intCol.TypeSize() != 4 {
		t.Fatalf("expected INT size 4, got %d", intCol.TypeSize())
	}
	varcharCol := Column{Type: ColVarchar, Length: 32}
	if varcharCol.TypeSize() != 32 {
		t.Fatalf("expected VARCHAR size 32, got %d", varcharCol.TypeSize())
	}
}
