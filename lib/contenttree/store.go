// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package contenttree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/blocks/lib/blockdef"
	"github.com/bureau-foundation/blocks/lib/sqlitepool"
)

// ErrNodeNotFound is returned when a node ID or path does not exist in
// the store.
var ErrNodeNotFound = errors.New("content node not found")

// maxChainLength bounds the ancestor query so a corrupted parent cycle
// terminates.
const maxChainLength = 1024

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id           INTEGER PRIMARY KEY,
	parent_id    INTEGER REFERENCES nodes(id),
	name         TEXT NOT NULL,
	content_type TEXT NOT NULL,
	structures   TEXT NOT NULL DEFAULT '',
	properties   TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS nodes_parent ON nodes(parent_id, name);
`

// StoreConfig holds the parameters for opening a Store.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string

	// PoolSize is the number of pooled connections.
	PoolSize int

	// Options decodes structures documents loaded from the store.
	Options blockdef.Options

	// Logger receives store diagnostics. Nil discards.
	Logger *slog.Logger
}

// Store is a SQLite-backed content store. It is safe for concurrent
// use.
type Store struct {
	pool    *sqlitepool.Pool
	options blockdef.Options
	logger  *slog.Logger
}

// Record is one stored node row.
type Record struct {
	ID         int64
	ParentID   int64 // 0 for a root
	Name       string
	Type       string
	Structures string
	Properties map[string]string
}

// OpenStore opens (creating if needed) the content store at
// config.Path.
func OpenStore(config StoreConfig) (*Store, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     config.Path,
		PoolSize: config.PoolSize,
		Logger:   logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opening content store: %w", err)
	}

	return &Store{pool: pool, options: config.Options, logger: logger}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Put inserts or replaces a node. The structures document must parse;
// the parent must already be stored.
func (s *Store) Put(ctx context.Context, record Record) error {
	if _, err := blockdef.Parse([]byte(record.Structures), s.options); err != nil {
		return fmt.Errorf("storing node %d: %w", record.ID, err)
	}
	return s.pool.Transaction(ctx, func(conn *sqlite.Conn) error {
		return putRecord(conn, record)
	})
}

// Import stores every node of tree in one transaction, parents before
// children.
func (s *Store) Import(ctx context.Context, tree *Tree) error {
	count := 0
	err := s.pool.Transaction(ctx, func(conn *sqlite.Conn) error {
		return tree.Walk(func(node *Node) error {
			record := Record{
				ID:         node.ID,
				Name:       node.Name,
				Type:       node.Type,
				Structures: node.Document,
				Properties: node.Properties,
			}
			if node.parent != nil {
				record.ParentID = node.parent.ID
			}
			count++
			return putRecord(conn, record)
		})
	})
	if err != nil {
		return fmt.Errorf("importing content tree: %w", err)
	}
	s.logger.Info("content tree imported", "nodes", count)
	return nil
}

func putRecord(conn *sqlite.Conn, record Record) error {
	if record.ID <= 0 {
		return fmt.Errorf("node %q: id must be positive, got %d", record.Name, record.ID)
	}
	properties, err := json.Marshal(record.Properties)
	if err != nil {
		return fmt.Errorf("node %d: encoding properties: %w", record.ID, err)
	}
	var parent any
	if record.ParentID != 0 {
		parent = record.ParentID
	}
	err = sqlitex.Execute(conn, `
		INSERT INTO nodes (id, parent_id, name, content_type, structures, properties)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			parent_id = excluded.parent_id,
			name = excluded.name,
			content_type = excluded.content_type,
			structures = excluded.structures,
			properties = excluded.properties`,
		&sqlitex.ExecOptions{
			Args: []any{record.ID, parent, record.Name, record.Type, record.Structures, string(properties)},
		})
	if err != nil {
		return fmt.Errorf("storing node %d: %w", record.ID, err)
	}
	return nil
}

// FindPath returns the ID of the node at a slash-separated path of
// names from a root, compared case-insensitively.
func (s *Store) FindPath(ctx context.Context, path string) (int64, error) {
	var id int64
	err := s.pool.Do(ctx, func(conn *sqlite.Conn) error {
		var parent any
		for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
			found := false
			err := sqlitex.Execute(conn,
				`SELECT id FROM nodes WHERE parent_id IS ? AND name = ? COLLATE NOCASE ORDER BY id LIMIT 1`,
				&sqlitex.ExecOptions{
					Args: []any{parent, segment},
					ResultFunc: func(stmt *sqlite.Stmt) error {
						id = stmt.ColumnInt64(0)
						found = true
						return nil
					},
				})
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %s", ErrNodeNotFound, path)
			}
			parent = id
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// LoadChain loads the node with the given ID and all its ancestors,
// decoding their structures. The returned node is linked to detached
// copies of its ancestors, ready for rendering.Resolve.
func (s *Store) LoadChain(ctx context.Context, id int64) (*Node, error) {
	var records []Record
	err := s.pool.Do(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `
			WITH RECURSIVE chain(id, parent_id, name, content_type, structures, properties, depth) AS (
				SELECT id, parent_id, name, content_type, structures, properties, 0
				FROM nodes WHERE id = ?
				UNION ALL
				SELECT n.id, n.parent_id, n.name, n.content_type, n.structures, n.properties, chain.depth + 1
				FROM nodes n JOIN chain ON n.id = chain.parent_id
				WHERE chain.depth < ?
			)
			SELECT id, parent_id, name, content_type, structures, properties FROM chain ORDER BY depth`,
			&sqlitex.ExecOptions{
				Args: []any{id, maxChainLength},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					record := Record{
						ID:         stmt.ColumnInt64(0),
						Name:       stmt.ColumnText(2),
						Type:       stmt.ColumnText(3),
						Structures: stmt.ColumnText(4),
					}
					if stmt.ColumnType(1) != sqlite.TypeNull {
						record.ParentID = stmt.ColumnInt64(1)
					}
					if properties := stmt.ColumnText(5); properties != "" {
						if err := json.Unmarshal([]byte(properties), &record.Properties); err != nil {
							return fmt.Errorf("node %d: decoding properties: %w", record.ID, err)
						}
					}
					records = append(records, record)
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("loading chain of node %d: %w", id, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	nodes := make([]*Node, len(records))
	for index, record := range records {
		node, err := NewNode(record.ID, record.Name, record.Type, record.Structures, s.options)
		if err != nil {
			return nil, fmt.Errorf("loading chain of node %d: %w", id, err)
		}
		node.Properties = record.Properties
		nodes[index] = node
	}
	for index := 0; index < len(nodes)-1; index++ {
		nodes[index].parent = nodes[index+1]
	}

	s.logger.Debug("loaded content chain", "node", id, "depth", len(nodes))
	return nodes[0], nil
}
