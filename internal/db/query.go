package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/Spok95/driving-school-bot/internal/ctxutil"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type rowScanner interface {
	Scan(dest ...any) error
}

// selectList выполняет построенный squirrel-запрос и сканирует все строки.
func selectList[T any](ctx context.Context, q Querier, b sq.SelectBuilder, scan func(rowScanner) (T, error)) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// selectOne — точечный запрос; промах даёт (nil, nil), а не ошибку.
func selectOne[T any](ctx context.Context, q Querier, b sq.SelectBuilder, scan func(rowScanner) (T, error)) (*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	v, err := scan(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanCount(r rowScanner) (int, error) {
	var n int
	err := r.Scan(&n)
	return n, err
}

func exec(ctx context.Context, q Querier, query string, args ...any) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func insertReturningID(ctx context.Context, q Querier, b sq.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// upsertReturningID — вставка с явным id. BIGSERIAL при этом не вызывает nextval,
// поэтому sequence подтягивается до MAX(id), иначе следующая вставка без id упрётся в занятый ключ.
func upsertReturningID(ctx context.Context, q Querier, table string, b sq.InsertBuilder) (int64, error) {
	id, err := insertReturningID(ctx, q, b)
	if err != nil {
		return 0, err
	}
	_, err = exec(ctx, q, fmt.Sprintf(`
		SELECT setval(pg_get_serial_sequence('%[1]s', 'id'),
		              GREATEST((SELECT MAX(id) FROM %[1]s), (SELECT last_value FROM %[1]s_id_seq)))`, table))
	if err != nil {
		return 0, fmt.Errorf("sync %s id sequence: %w", table, err)
	}
	return id, nil
}

// IsConstraintViolation — нарушение ограничения (SQLSTATE класса 23: unique, foreign key, not null, check).
// Понимает ошибки обоих драйверов: pgx (прод) и lib/pq (тестовый контейнер).
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == "23"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}
	return false
}
