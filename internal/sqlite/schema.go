package sqlite

// Schema DDL. SQLite is rebuilt from the JSONL files on every Attach, so
// the schema has no migrations. Node IDs are unique within a tree; a copy of
// a tree stored under another name keeps its node IDs.
const (
	createTrees = `CREATE TABLE trees (
    tree_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    root_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createNodes = `CREATE TABLE nodes (
    node_id TEXT NOT NULL,
    tree_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    label TEXT NOT NULL,
    parent_id TEXT,
    ordinal INTEGER NOT NULL,
    PRIMARY KEY (tree_id, node_id),
    FOREIGN KEY (tree_id) REFERENCES trees(tree_id) ON DELETE CASCADE
);`
)

// Index DDL.
const (
	idxTreesCreated = `CREATE INDEX idx_trees_created ON trees(created_at);`
	idxNodesTree    = `CREATE INDEX idx_nodes_tree ON nodes(tree_id);`
	idxNodesParent  = `CREATE INDEX idx_nodes_parent ON nodes(parent_id, ordinal);`
)

// schemaDDL lists every statement in dependency order.
var schemaDDL = []string{
	createTrees,
	createNodes,
	idxTreesCreated,
	idxNodesTree,
	idxNodesParent,
}
