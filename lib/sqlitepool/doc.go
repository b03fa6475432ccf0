// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection pool behind the
// content store.
//
// It wraps zombiezen.com/go/sqlite with the pragmas the content store
// relies on: WAL journal mode so resolvers keep reading while an
// import writes, NORMAL synchronous, a busy timeout for write
// contention, and enforced foreign keys so a node can never point at a
// missing parent.
//
// Callers either [Pool.Take] a connection and [Pool.Put] it back, or
// hand a function to [Pool.Do] or [Pool.Transaction], which manage
// the connection (and the transaction) for them. Connections are NOT
// safe for concurrent use: each goroutine holds its own connection for
// the duration of its work.
//
// # Pragmas
//
//   - journal_mode=WAL: readers never block the writer and vice versa.
//   - synchronous=NORMAL: transactions survive process crashes.
//   - busy_timeout=5000: wait up to 5 seconds for a write lock.
//   - foreign_keys=ON: parent references are checked.
//   - cache_size=-8192: 8 MB page cache per connection.
//   - temp_store=MEMORY: recursive ancestor queries stay in memory.
//
// # Usage
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:     "/var/lib/blocks/content.db",
//	    PoolSize: 4,
//	    Logger:   logger,
//	    OnConnect: func(conn *sqlite.Conn) error {
//	        return sqlitex.ExecuteScript(conn, schema, nil)
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	err = pool.Transaction(ctx, func(conn *sqlite.Conn) error {
//	    return sqlitex.Execute(conn, "INSERT ...", &sqlitex.ExecOptions{Args: args})
//	})
//
// The package applies pragmas and exposes the zombiezen types
// directly; callers write SQL and use sqlitex.Execute for cached
// statements.
package sqlitepool
