package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LogEntryRepository = (*LogEntryRepo)(nil)

const logColumns = `id, transaction_id, logged_at, action, item_id, item_name, delta`

// LogEntryRepo bitácora sobre PostgreSQL. Solo INSERT; UPDATE y DELETE los anula una regla del esquema.
type LogEntryRepo struct {
	q Querier
}

// NewLogEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLogEntryRepository(q Querier) *LogEntryRepo {
	return &LogEntryRepo{q: q}
}

// Append anexa un registro con el ID asignado por NextID.
func (r *LogEntryRepo) Append(ctx context.Context, e *entity.LogEntry) error {
	query := `
		INSERT INTO log_entries (` + logColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.TransactionID, e.Timestamp, string(e.Action), e.ItemID, e.ItemName, e.Delta,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("append log entry: %w", err)
	}
	return nil
}

// ListByItem registros de un artículo, más reciente primero.
func (r *LogEntryRepo) ListByItem(ctx context.Context, itemID int64, limit, offset int) ([]*entity.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM log_entries WHERE item_id = $1 ORDER BY id DESC`
	args := []any{itemID}
	query, args = withPage(query, args, limit, offset)
	return r.list(ctx, "list item log", query, args...)
}

// List bitácora completa, más reciente primero.
func (r *LogEntryRepo) List(ctx context.Context, limit, offset int) ([]*entity.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM log_entries ORDER BY id DESC`
	query, args := withPage(query, nil, limit, offset)
	return r.list(ctx, "list log", query, args...)
}

// SumDeltaByItem suma de Delta de un artículo (0 si no tiene registros).
func (r *LogEntryRepo) SumDeltaByItem(ctx context.Context, itemID int64) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(delta), 0)::BIGINT FROM log_entries WHERE item_id = $1`, itemID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum item log: %w", err)
	}
	return sum, nil
}

func (r *LogEntryRepo) MaxID(ctx context.Context) (int64, error) {
	var maxID int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM log_entries`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("max log id: %w", err)
	}
	return maxID, nil
}

func (r *LogEntryRepo) NextID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.q.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('log_entries', 'id'))`).Scan(&id); err != nil {
		return 0, fmt.Errorf("next log id: %w", err)
	}
	return id, nil
}

func (r *LogEntryRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.LogEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	list := make([]*entity.LogEntry, 0)
	for rows.Next() {
		e, err := scanLogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanLogEntry(row pgx.Row) (*entity.LogEntry, error) {
	var (
		e      entity.LogEntry
		action string
	)
	if err := row.Scan(&e.ID, &e.TransactionID, &e.Timestamp, &action, &e.ItemID, &e.ItemName, &e.Delta); err != nil {
		return nil, err
	}
	e.Action = entity.Action(action)
	return &e, nil
}

// withPage agrega LIMIT/OFFSET con los placeholders siguientes a args. limit <= 0 no limita.
func withPage(query string, args []any, limit, offset int) (string, []any) {
	pos := len(args) + 1
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		return query, append(args, limit, offset)
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		return query, append(args, offset)
	}
	return query, args
}
