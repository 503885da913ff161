package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/forumbot/statsbot/pkg/apperrors"
	"github.com/forumbot/statsbot/pkg/models"
)

// backupDateSQL finds the moment the forum backup was taken: the newest
// recorded post action. Every reply stamps this so readers know how stale
// the numbers are.
const backupDateSQL = `SELECT created_at FROM post_actions ORDER BY created_at DESC LIMIT 1`

// Querier executes catalog queries against the relational store.
type Querier interface {
	// Run executes a parameterized query with positional string arguments
	// ($1..$n) and returns the full result set.
	Run(ctx context.Context, sqlText string, args []string) (*models.ResultSet, error)

	// BackupDate returns the as-of date of the data being reported on.
	BackupDate(ctx context.Context) (time.Time, error)
}

type querier struct {
	db *DB
}

// NewQuerier creates a Querier over the given pool.
func NewQuerier(db *DB) Querier {
	return &querier{db: db}
}

var _ Querier = (*querier)(nil)

func (q *querier) Run(ctx context.Context, sqlText string, args []string) (*models.ResultSet, error) {
	params := make([]any, len(args))
	for i, a := range args {
		params[i] = a
	}

	rows, err := q.db.Query(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	result := &models.ResultSet{Columns: columns}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		row := make(models.Row, len(values))
		for i, v := range values {
			row[i] = cellValue(v)
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// cellValue converts one driver scalar into a tagged Value. pgx decodes
// numeric and decimal columns as pgtype.Numeric, which has no usable string
// form, so aggregates like avg() and sum() need an explicit conversion here;
// everything else goes through models.ValueOf.
func cellValue(v any) models.Value {
	if n, ok := v.(pgtype.Numeric); ok {
		if !n.Valid {
			return models.TextValue("")
		}
		f, err := n.Float64Value()
		if err != nil {
			return models.TextValue("")
		}
		return models.NumberValue(f.Float64)
	}
	return models.ValueOf(v)
}

func (q *querier) BackupDate(ctx context.Context) (time.Time, error) {
	var createdAt time.Time
	err := q.db.QueryRow(ctx, backupDateSQL).Scan(&createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, apperrors.ErrNoBackupDate
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query backup date: %w", err)
	}
	return createdAt, nil
}
