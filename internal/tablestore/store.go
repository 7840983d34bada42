// Package tablestore provides partition/row-key entity storage over Postgres.
//
// Each logical table is one relation keyed by (partition_key, row_key) with a
// jsonb attribute bag, mirroring the access pattern of a managed table store:
// point reads and writes by key pair plus partition-scoped listing.
package tablestore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store hands out one memoized Client per logical table.
type Store struct {
	pool *pgxpool.Pool

	mu      sync.Mutex
	clients map[string]*Client
}

// NewStore constructs a Store over the shared connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:    pool,
		clients: make(map[string]*Client),
	}
}

// Client returns the handle bound to the named logical table, creating it on
// first use. Clients are stateless wrappers over the pool and safe to share.
func (s *Store) Client(table string) (*Client, error) {
	switch table {
	case TableActivities, TableSignups, TableUnavailable:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[table]; ok {
		return client, nil
	}

	client := &Client{pool: s.pool, table: table}
	s.clients[table] = client
	return client, nil
}

// EnsureTables creates every logical table that does not yet exist. Creation
// is idempotent at the database, so concurrent processes cannot race
// destructively; callers run this once at startup.
func (s *Store) EnsureTables(ctx context.Context) error {
	for _, table := range []string{TableActivities, TableSignups, TableUnavailable} {
		client, err := s.Client(table)
		if err != nil {
			return err
		}
		if err := client.EnsureTable(ctx); err != nil {
			return fmt.Errorf("ensure table %s: %w", table, err)
		}
	}
	return nil
}

// Client performs entity operations against one logical table.
type Client struct {
	pool  *pgxpool.Pool
	table string
}

// Table reports the logical table this client is bound to.
func (c *Client) Table() string {
	return c.table
}

// EnsureTable creates the backing relation if it does not exist.
func (c *Client) EnsureTable(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
        partition_key text NOT NULL,
        row_key       text NOT NULL,
        attributes    jsonb NOT NULL,
        PRIMARY KEY (partition_key, row_key)
    )`, c.ident())
	_, err := c.pool.Exec(ctx, stmt)
	return err
}

// Insert stores a new entity; ErrConflict when the key pair is taken.
func (c *Client) Insert(ctx context.Context, entity Entity) error {
	stmt := fmt.Sprintf(`INSERT INTO %s (partition_key, row_key, attributes) VALUES ($1, $2, $3)`, c.ident())
	_, err := c.pool.Exec(ctx, stmt, entity.PartitionKey, entity.RowKey, entity.Attributes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

// Get fetches one entity by key pair; ErrNotFound when absent.
func (c *Client) Get(ctx context.Context, partitionKey, rowKey string) (*Entity, error) {
	stmt := fmt.Sprintf(`SELECT attributes FROM %s WHERE partition_key = $1 AND row_key = $2`, c.ident())

	var attrs map[string]any
	err := c.pool.QueryRow(ctx, stmt, partitionKey, rowKey).Scan(&attrs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Entity{PartitionKey: partitionKey, RowKey: rowKey, Attributes: attrs}, nil
}

// Replace overwrites the attributes of an existing entity; ErrNotFound when
// absent. There is no partial merge: the stored bag becomes exactly the one
// supplied.
func (c *Client) Replace(ctx context.Context, entity Entity) error {
	stmt := fmt.Sprintf(`UPDATE %s SET attributes = $3 WHERE partition_key = $1 AND row_key = $2`, c.ident())
	tag, err := c.pool.Exec(ctx, stmt, entity.PartitionKey, entity.RowKey, entity.Attributes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one entity by key pair; ErrNotFound when absent.
func (c *Client) Delete(ctx context.Context, partitionKey, rowKey string) error {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE partition_key = $1 AND row_key = $2`, c.ident())
	tag, err := c.pool.Exec(ctx, stmt, partitionKey, rowKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every entity in one partition. The partition key is always a
// bound parameter, never interpolated into the filter.
func (c *Client) List(ctx context.Context, partitionKey string) ([]Entity, error) {
	stmt := fmt.Sprintf(`SELECT row_key, attributes FROM %s WHERE partition_key = $1`, c.ident())

	rows, err := c.pool.Query(ctx, stmt, partitionKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []Entity
	for rows.Next() {
		entity := Entity{PartitionKey: partitionKey}
		if err := rows.Scan(&entity.RowKey, &entity.Attributes); err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// Count returns the number of entities in one partition.
func (c *Client) Count(ctx context.Context, partitionKey string) (int, error) {
	stmt := fmt.Sprintf(`SELECT count(*) FROM %s WHERE partition_key = $1`, c.ident())

	var count int
	if err := c.pool.QueryRow(ctx, stmt, partitionKey).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// DeletePartition removes every entity in one partition and reports how many
// rows went away.
func (c *Client) DeletePartition(ctx context.Context, partitionKey string) (int64, error) {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE partition_key = $1`, c.ident())
	tag, err := c.pool.Exec(ctx, stmt, partitionKey)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ident quotes the table name. Table names come from the fixed logical set,
// but quoting keeps the statement builders uniform.
func (c *Client) ident() string {
	return pgx.Identifier{c.table}.Sanitize()
}
