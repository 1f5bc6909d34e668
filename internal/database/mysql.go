package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"

	"github.com/AliSafari-IT/setup-data/internal/schema"
)

type MySQLAdapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func NewMySQLAdapter() *MySQLAdapter {
	return &MySQLAdapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (m *MySQLAdapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("mysql", strings.TrimPrefix(url, "mysql://"))
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	// Transaction control goes through Exec, so everything must share one
	// connection.
	db.SetMaxOpenConns(1)
	m.db = db
	return nil
}

func (m *MySQLAdapter) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *MySQLAdapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *MySQLAdapter) Provider() string { return "mysql" }

func (m *MySQLAdapter) Exec(ctx context.Context, query string) error {
	_, err := m.db.ExecContext(ctx, query)
	return err
}

func (m *MySQLAdapter) columnType(col ColumnSpec) string {
	if col.PrimaryKey {
		return "INT AUTO_INCREMENT PRIMARY KEY"
	}
	var sqlType string
	switch col.Kind {
	case schema.KindInteger:
		sqlType = "INT"
	case schema.KindNumber:
		sqlType = "DECIMAL(12,2)"
	case schema.KindBoolean:
		sqlType = "BOOLEAN"
	case schema.KindDateTime:
		sqlType = "DATETIME"
	case schema.KindDate:
		sqlType = "DATE"
	case schema.KindArray, schema.KindObject:
		sqlType = "JSON"
	default:
		length := col.MaxLength
		if length <= 0 {
			length = 255
		}
		sqlType = fmt.Sprintf("VARCHAR(%d)", length)
	}
	if col.Required {
		sqlType += " NOT NULL"
	}
	return sqlType
}

func (m *MySQLAdapter) EnsureTable(ctx context.Context, table string, columns []ColumnSpec) error {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, fmt.Sprintf("`%s` %s", col.Name, m.columnType(col)))
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` (%s) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4", table, strings.Join(defs, ", "))
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

func (m *MySQLAdapter) Truncate(ctx context.Context, table string) error {
	if _, err := m.db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE `%s`", table)); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", table, err)
	}
	return nil
}

func (m *MySQLAdapter) InsertRecords(ctx context.Context, table string, columns []string, records []map[string]any) ([]any, error) {
	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = fmt.Sprintf("`%s`", column)
	}

	ids := make([]any, 0, len(records))
	for _, record := range records {
		values, err := rowValues(columns, record)
		if err != nil {
			return ids, err
		}

		query, args, err := m.qb.Insert(fmt.Sprintf("`%s`", table)).
			Columns(quoted...).
			Values(values...).
			ToSql()
		if err != nil {
			return ids, fmt.Errorf("failed to build insert: %w", err)
		}

		result, err := m.db.ExecContext(ctx, query, args...)
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
