package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/AliSafari-IT/setup-data/internal/schema"
)

type SQLiteAdapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func NewSQLiteAdapter() *SQLiteAdapter {
	return &SQLiteAdapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (s *SQLiteAdapter) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// Transaction control goes through Exec, so everything must share one
	// connection.
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *SQLiteAdapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteAdapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteAdapter) Provider() string { return "sqlite" }

func (s *SQLiteAdapter) Exec(ctx context.Context, query string) error {
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *SQLiteAdapter) columnType(col ColumnSpec) string {
	if col.PrimaryKey {
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	var sqlType string
	switch col.Kind {
	case schema.KindInteger, schema.KindBoolean:
		sqlType = "INTEGER"
	case schema.KindNumber:
		sqlType = "REAL"
	case schema.KindDateTime:
		sqlType = "DATETIME"
	case schema.KindDate:
		sqlType = "DATE"
	default:
		sqlType = "TEXT"
	}
	if col.Required {
		sqlType += " NOT NULL"
	}
	return sqlType
}

func (s *SQLiteAdapter) EnsureTable(ctx context.Context, table string, columns []ColumnSpec) error {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, fmt.Sprintf("%q %s", col.Name, s.columnType(col)))
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", table, strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

func (s *SQLiteAdapter) Truncate(ctx context.Context, table string) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %q", table)); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", table, err)
	}
	// Reset the autoincrement counter so reseeded ids start from 1 again.
	_, _ = s.db.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", table)
	return nil
}

func (s *SQLiteAdapter) InsertRecords(ctx context.Context, table string, columns []string, records []map[string]any) ([]any, error) {
	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = fmt.Sprintf("%q", column)
	}

	ids := make([]any, 0, len(records))
	for _, record := range records {
		values, err := rowValues(columns, record)
		if err != nil {
			return ids, err
		}

		query, args, err := s.qb.Insert(fmt.Sprintf("%q", table)).
			Columns(quoted...).
			Values(values...).
			ToSql()
		if err != nil {
			return ids, fmt.Errorf("failed to build insert: %w", err)
		}

		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return ids, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			ids = append(ids, nil)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
