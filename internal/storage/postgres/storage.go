package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/errors"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage keeps the order sheet as positional rows in PostgreSQL.
type Storage struct {
	pool   pgxPool
	sheet  string
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn, sheet string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, sheet: sheet, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sheet_rows (
            sheet TEXT NOT NULL,
            row_index INTEGER NOT NULL,
            cells TEXT[] NOT NULL,
            PRIMARY KEY (sheet, row_index)
        )`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// Pull reads every row of the sheet in row order.
func (s *Storage) Pull(ctx context.Context) ([]model.RawRow, error) {
	const query = `SELECT cells FROM sheet_rows WHERE sheet=$1 ORDER BY row_index`
	rows, err := s.pool.Query(ctx, query, s.sheet)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var result []model.RawRow
	for rows.Next() {
		var cells []pgtype.Text
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrDecode, err)
		}
		result = append(result, rawRow(cells))
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// rawRow maps NULL array elements to empty cells.
func rawRow(cells []pgtype.Text) model.RawRow {
	row := make(model.RawRow, len(cells))
	for i, c := range cells {
		if c.Valid {
			row[i] = c.String
		}
	}
	return row
}

// Push replaces the sheet contents with rows in a single transaction.
func (s *Storage) Push(ctx context.Context, rows []model.RawRow) error {
	err := s.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM sheet_rows WHERE sheet=$1`, s.sheet); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		data := make([][]any, len(rows))
		for i, row := range rows {
			data[i] = []any{s.sheet, i, []string(row)}
		}
		copied, err := tx.CopyFrom(ctx, pgx.Identifier{"sheet_rows"}, []string{"sheet", "row_index", "cells"}, pgx.CopyFromRows(data))
		if err != nil {
			return err
		}
		if copied != int64(len(rows)) {
			return fmt.Errorf("%w: copied %d of %d rows", domainErrors.ErrWriteRejected, copied, len(rows))
		}
		return nil
	})
	if err != nil {
		return classify(err)
	}
	s.logger.Debug("sheet pushed", slog.String("sheet", s.sheet), slog.Int("rows", len(rows)))
	return nil
}

// classify maps driver errors onto the store error taxonomy.
func classify(err error) error {
	if errors.Is(err, domainErrors.ErrWriteRejected) || errors.Is(err, domainErrors.ErrStoreUnavailable) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "23") || strings.HasPrefix(pgErr.Code, "40") || pgErr.Code == "55P03" {
			return fmt.Errorf("%w: %s (%s)", domainErrors.ErrWriteRejected, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("%w: %v", domainErrors.ErrStoreUnavailable, err)
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}
