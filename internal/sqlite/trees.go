// This file implements the tree operations of types.Store.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// generateUUID generates a new UUID v7, falling back to v4.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }

// CreateTree stores root as a new tree named name and returns its ID.
func (b *Backend) CreateTree(name string, root types.Node) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", types.ErrStoreDetached
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", types.ErrInvalidName
	}
	records := types.Flatten(root)
	if len(records) == 0 {
		return "", types.ErrInvalidNode
	}

	taken, err := b.treeIDByName(name)
	if err != nil {
		return "", err
	}
	if taken != "" {
		return "", types.ErrDuplicateName
	}

	id := generateUUID()
	now := formatTime(time.Now())

	tx, err := b.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO trees (tree_id, name, root_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id, name, records[0].NodeID, now, now,
	); err != nil {
		return "", fmt.Errorf("inserting tree: %w", err)
	}
	if err := insertNodes(tx, id, records); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing tree: %w", err)
	}

	if err := b.persistJSONL(types.TreesTable, types.NodesTable); err != nil {
		return "", err
	}
	b.log.Debug("created tree",
		zap.String("tree_id", id),
		zap.String("name", name),
		zap.Int("nodes", len(records)))
	return id, nil
}

// SaveTree replaces the stored nodes of tree.TreeID with tree.Root's shape
// and refreshes tree.UpdatedAt.
func (b *Backend) SaveTree(tree *types.Tree) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if tree == nil || tree.TreeID == "" {
		return types.ErrInvalidID
	}
	records := types.Flatten(tree.Root)
	if len(records) == 0 {
		return types.ErrInvalidNode
	}

	now := time.Now()
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"UPDATE trees SET root_id = ?, updated_at = ? WHERE tree_id = ?",
		records[0].NodeID, formatTime(now), tree.TreeID,
	)
	if err != nil {
		return fmt.Errorf("updating tree: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("updating tree: %w", err)
	} else if n == 0 {
		return types.ErrNotFound
	}
	if _, err := tx.Exec("DELETE FROM nodes WHERE tree_id = ?", tree.TreeID); err != nil {
		return fmt.Errorf("clearing nodes: %w", err)
	}
	if err := insertNodes(tx, tree.TreeID, records); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tree: %w", err)
	}

	tree.UpdatedAt = now.UTC()
	if err := b.persistJSONL(types.TreesTable, types.NodesTable); err != nil {
		return err
	}
	b.log.Debug("saved tree",
		zap.String("tree_id", tree.TreeID),
		zap.Int("nodes", len(records)))
	return nil
}

// insertNodes writes one nodes row per record.
func insertNodes(tx *sql.Tx, treeID string, records []types.Record) error {
	stmt, err := tx.Prepare(
		"INSERT INTO nodes (node_id, tree_id, kind, label, parent_id, ordinal) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var parent any
		if r.ParentID != "" {
			parent = r.ParentID
		}
		if _, err := stmt.Exec(r.NodeID, treeID, r.Kind, r.Label, parent, r.Ordinal); err != nil {
			return fmt.Errorf("inserting node %s: %w", r.NodeID, err)
		}
	}
	return nil
}

// GetTree loads a tree by ID, or by name if no ID matches.
func (b *Backend) GetTree(idOrName string) (*types.Tree, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if idOrName == "" {
		return nil, types.ErrInvalidID
	}

	const q = "SELECT tree_id, name, created_at, updated_at FROM trees WHERE tree_id = ? OR name = ? ORDER BY tree_id = ? DESC LIMIT 1"
	var tree types.Tree
	var createdAt, updatedAt string
	err := b.db.QueryRow(q, idOrName, idOrName, idOrName).
		Scan(&tree.TreeID, &tree.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting tree %s: %w", idOrName, err)
	}
	if tree.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if tree.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	records, err := b.nodeRecords(tree.TreeID)
	if err != nil {
		return nil, err
	}
	root, err := types.Rebuild(records)
	if err != nil {
		return nil, fmt.Errorf("rebuilding tree %s: %w", tree.TreeID, err)
	}
	tree.Root = root
	return &tree, nil
}

// nodeRecords returns the stored records of one tree.
func (b *Backend) nodeRecords(treeID string) ([]types.Record, error) {
	rows, err := b.db.Query(
		"SELECT node_id, kind, label, parent_id, ordinal FROM nodes WHERE tree_id = ? ORDER BY ordinal",
		treeID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching nodes: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var r types.Record
		var parent sql.NullString
		if err := rows.Scan(&r.NodeID, &r.Kind, &r.Label, &parent, &r.Ordinal); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		r.ParentID = parent.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	return records, nil
}

// ListTrees returns every stored tree, oldest first.
func (b *Backend) ListTrees() ([]*types.TreeInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query(`SELECT t.tree_id, t.name, t.root_id, t.created_at, t.updated_at, COUNT(n.node_id)
FROM trees t LEFT JOIN nodes n ON n.tree_id = t.tree_id
GROUP BY t.tree_id
ORDER BY t.created_at, t.tree_id`)
	if err != nil {
		return nil, fmt.Errorf("listing trees: %w", err)
	}
	defer rows.Close()

	infos := []*types.TreeInfo{}
	for rows.Next() {
		var info types.TreeInfo
		var createdAt, updatedAt string
		if err := rows.Scan(&info.TreeID, &info.Name, &info.RootID, &createdAt, &updatedAt, &info.NodeCount); err != nil {
			return nil, fmt.Errorf("scanning tree: %w", err)
		}
		if info.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if info.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		infos = append(infos, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trees: %w", err)
	}
	return infos, nil
}

// DeleteTree removes a tree and its nodes.
func (b *Backend) DeleteTree(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if id == "" {
		return types.ErrInvalidID
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM nodes WHERE tree_id = ?", id); err != nil {
		return fmt.Errorf("deleting nodes: %w", err)
	}
	res, err := tx.Exec("DELETE FROM trees WHERE tree_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting tree: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("deleting tree: %w", err)
	} else if n == 0 {
		return types.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tree deletion: %w", err)
	}

	if err := b.persistJSONL(types.TreesTable, types.NodesTable); err != nil {
		return err
	}
	b.log.Debug("deleted tree", zap.String("tree_id", id))
	return nil
}

// treeIDByName returns the ID of the tree named name, or "" if none.
func (b *Backend) treeIDByName(name string) (string, error) {
	var id string
	err := b.db.QueryRow("SELECT tree_id FROM trees WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("checking tree name: %w", err)
	}
	return id, nil
}
