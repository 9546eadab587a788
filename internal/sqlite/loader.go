// This file loads the JSONL files into SQLite on Attach.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// JSONL file names in DataDir.
const (
	treesFile = "trees.jsonl"
	nodesFile = "nodes.jsonl"
)

// jsonlTables maps JSONL files to their SQLite tables and columns. Trees load
// before the nodes that reference them.
var jsonlTables = []struct {
	file    string
	table   string
	columns []string
	orderBy string
}{
	{treesFile, types.TreesTable, []string{"tree_id", "name", "root_id", "created_at", "updated_at"}, "created_at, tree_id"},
	{nodesFile, types.NodesTable, []string{"node_id", "tree_id", "kind", "label", "parent_id", "ordinal"}, "tree_id, parent_id, ordinal"},
}

// ensureJSONLFiles creates any missing JSONL file as an empty file.
func ensureJSONLFiles(dataDir string) error {
	for _, m := range jsonlTables {
		path := filepath.Join(dataDir, m.file)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", m.file, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", m.file, err)
		}
	}
	return nil
}

// loadAllJSONL inserts every JSONL record into SQLite in one transaction.
// Malformed lines and rows that violate constraints are skipped and logged.
// Unknown JSON fields are ignored.
func loadAllJSONL(db *sql.DB, dataDir string, log *zap.Logger) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range jsonlTables {
		records, malformed, err := readJSONL(filepath.Join(dataDir, m.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", m.file, err)
		}
		loaded, rejected, err := insertRecords(tx, m.table, m.columns, records)
		if err != nil {
			return fmt.Errorf("loading %s into %s: %w", m.file, m.table, err)
		}
		log.Debug("loaded JSONL",
			zap.String("file", m.file),
			zap.Int("rows", loaded),
			zap.Int("malformed", malformed),
			zap.Int("rejected", rejected))
		if malformed+rejected > 0 {
			log.Warn("skipped JSONL records",
				zap.String("file", m.file),
				zap.Int("count", malformed+rejected))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts the listed columns of each record and returns how
// many rows were inserted and how many were rejected.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) (int, int, error) {
	if len(records) == 0 {
		return 0, 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders,
	))
	if err != nil {
		return 0, 0, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	loaded, rejected := 0, 0
	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			rejected++
			continue
		}
		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = obj[col]
		}
		if _, err := stmt.Exec(args...); err != nil {
			rejected++
			continue
		}
		loaded++
	}
	return loaded, rejected, nil
}

// persistJSONL re-exports the given tables to their JSONL files.
func (b *Backend) persistJSONL(tables ...string) error {
	for _, m := range jsonlTables {
		for _, t := range tables {
			if t != m.table {
				continue
			}
			path := filepath.Join(b.config.DataDir, m.file)
			if err := exportTableJSONL(b.db, m.table, m.orderBy, path); err != nil {
				return fmt.Errorf("persisting %s: %w", m.file, err)
			}
		}
	}
	return nil
}
