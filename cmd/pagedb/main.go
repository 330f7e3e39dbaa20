// Command pagedb is the non-interactive CLI entrypoint for the engine: one
// statement in, one structured JSON result out. It is not a REPL.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"pagedb/config"
	"pagedb/db"
	"pagedb/value"
)

var CLI struct {
	DataDir  string `name:"data-dir" help:"Directory holding table files and the catalog." type:"path"`
	Capacity int    `name:"capacity" help:"Buffer pool capacity, in pages."`
	Config   string `name:"config" help:"Optional YAML config file." type:"path"`
	Exec     string `name:"exec" help:"SQL statement to execute." required:""`
}

// output is the JSON shape printed to stdout: exactly one of Rows,
// Affected, or Success is meaningful for a given statement, and Error is
// set instead of all three when the statement failed.
type output struct {
	Success  bool       `json:"success,omitempty"`
	Affected int        `json:"affected,omitempty"`
	Rows     [][]string `json:"rows,omitempty"`
	Error    string     `json:"error,omitempty"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("pagedb"),
		kong.Description("A teaching relational database engine."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fail(err)
	}
	if CLI.DataDir != "" {
		cfg.DataDir = CLI.DataDir
	}
	if CLI.Capacity > 0 {
		cfg.BufferPoolCapacity = CLI.Capacity
	}

	handle, err := db.Open(cfg.DataDir, cfg.BufferPoolCapacity)
	if err != nil {
		fail(err)
	}

	result := handle.Execute(CLI.Exec)
	if result.Err != nil {
		fail(result.Err)
	}

	out := output{Success: result.Success, Affected: result.Affected, Rows: renderRows(result.Rows)}
	emit(out)
}

func renderRows(rows [][]value.Value) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		rendered := make([]string, len(row))
		for j, v := range row {
			rendered[j] = v.String()
		}
		out[i] = rendered
	}
	return out
}

func emit(out output) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fail(err error) {
	emit(output{Error: err.Error()})
	os.Exit(1)
}
