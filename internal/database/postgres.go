package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/AliSafari-IT/setup-data/internal/schema"
)

type PostgresAdapter struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType

	// pkColumns remembers the primary-key column per table, as declared to
	// EnsureTable; inserts use it for the RETURNING clause.
	pkColumns map[string]string
}

func NewPostgresAdapter() *PostgresAdapter {
	return &PostgresAdapter{
		qb:        squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		pkColumns: make(map[string]string),
	}
}

func (p *PostgresAdapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}
	// Inserts run sequentially and transaction control goes through Exec,
	// so everything must share one connection.
	config.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	p.pool = pool
	return nil
}

func (p *PostgresAdapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *PostgresAdapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresAdapter) Provider() string { return "postgresql" }

func (p *PostgresAdapter) Exec(ctx context.Context, query string) error {
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresAdapter) columnType(col ColumnSpec) string {
	if col.PrimaryKey {
		return "SERIAL PRIMARY KEY"
	}
	var sqlType string
	switch col.Kind {
	case schema.KindInteger:
		sqlType = "INTEGER"
	case schema.KindNumber:
		sqlType = "NUMERIC(12,2)"
	case schema.KindBoolean:
		sqlType = "BOOLEAN"
	case schema.KindDateTime:
		sqlType = "TIMESTAMP WITH TIME ZONE"
	case schema.KindDate:
		sqlType = "DATE"
	case schema.KindArray, schema.KindObject:
		sqlType = "JSONB"
	default:
		if col.MaxLength > 0 {
			sqlType = fmt.Sprintf("VARCHAR(%d)", col.MaxLength)
		} else {
			sqlType = "TEXT"
		}
	}
	if col.Required {
		sqlType += " NOT NULL"
	}
	return sqlType
}

func (p *PostgresAdapter) EnsureTable(ctx context.Context, table string, columns []ColumnSpec) error {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		if col.PrimaryKey {
			p.pkColumns[table] = col.Name
		}
		defs = append(defs, fmt.Sprintf("%s %s", pq.QuoteIdentifier(col.Name), p.columnType(col)))
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pq.QuoteIdentifier(table), strings.Join(defs, ", "))
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

func (p *PostgresAdapter) Truncate(ctx context.Context, table string) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", pq.QuoteIdentifier(table))
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", table, err)
	}
	return nil
}

func (p *PostgresAdapter) InsertRecords(ctx context.Context, table string, columns []string, records []map[string]any) ([]any, error) {
	pk := p.pkColumns[table]
	if pk == "" {
		pk = "id"
	}

	ids := make([]any, 0, len(records))
	for _, record := range records {
		values, err := rowValues(columns, record)
		if err != nil {
			return ids, err
		}

		query, args, err := p.qb.Insert(pq.QuoteIdentifier(table)).
			Columns(quoteAll(columns)...).
			Values(values...).
			Suffix("RETURNING " + pq.QuoteIdentifier(pk)).
			ToSql()
		if err != nil {
			return ids, fmt.Errorf("failed to build insert: %w", err)
		}

		var id any
		if err := p.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			return ids, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func quoteAll(columns []string) []string {
	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = pq.QuoteIdentifier(column)
	}
	return quoted
}
