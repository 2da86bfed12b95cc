package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresProvider implements DatabaseProvider over a single key-value table.
// Useful when several tools need to share slot state through an existing
// postgres instance instead of a local file.
type PostgresProvider struct {
	db *sql.DB
}

func NewPostgresProvider(dsn string) (DatabaseProvider, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn cannot be empty")
	}
	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	_, err = database.Exec(`CREATE TABLE IF NOT EXISTS slots (key BYTEA PRIMARY KEY, value BYTEA NOT NULL)`)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create slots table: %w", err)
	}
	return &PostgresProvider{db: database}, nil
}

func (p *PostgresProvider) Get(key []byte) ([]byte, error) {
	var value []byte
	err := p.db.QueryRow(`SELECT value FROM slots WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (p *PostgresProvider) Put(key, value []byte) error {
	_, err := p.db.Exec(
		`INSERT INTO slots (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	return err
}

func (p *PostgresProvider) Delete(key []byte) error {
	_, err := p.db.Exec(`DELETE FROM slots WHERE key = $1`, key)
	return err
}

func (p *PostgresProvider) Has(key []byte) (bool, error) {
	var exists bool
	err := p.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM slots WHERE key = $1)`, key).Scan(&exists)
	return exists, err
}

func (p *PostgresProvider) Batch() DatabaseBatch {
	return &postgresBatch{provider: p}
}

func (p *PostgresProvider) Close() error {
	return p.db.Close()
}

type postgresOp struct {
	key    []byte
	value  []byte
	delete bool
}

type postgresBatch struct {
	provider *PostgresProvider
	ops      []postgresOp
}

func (b *postgresBatch) Put(key, value []byte) {
	b.ops = append(b.ops, postgresOp{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
}

func (b *postgresBatch) Delete(key []byte) {
	b.ops = append(b.ops, postgresOp{key: append([]byte(nil), key...), delete: true})
}

// Write replays the accumulated operations inside one sql transaction.
func (b *postgresBatch) Write() error {
	tx, err := b.provider.db.Begin()
	if err != nil {
		return err
	}
	for _, op := range b.ops {
		if op.delete {
			_, err = tx.Exec(`DELETE FROM slots WHERE key = $1`, op.key)
		} else {
			_, err = tx.Exec(
				`INSERT INTO slots (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
				op.key, op.value,
			)
		}
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (b *postgresBatch) Reset() {
	b.ops = b.ops[:0]
}
