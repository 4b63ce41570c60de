package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LogEntryRepository = (*logRepo)(nil)

type logRepo struct {
	s    *Store
	inTx bool
}

// Append exige IDs crecientes: la bitácora solo admite anexar al final.
func (r *logRepo) Append(_ context.Context, entry *entity.LogEntry) error {
	var err error
	r.s.write(r.inTx, func() {
		if n := len(r.s.logs); n > 0 && entry.ID <= r.s.logs[n-1].ID {
			err = domain.ErrConflict
			return
		}
		cp := *entry
		r.s.logs = append(r.s.logs, &cp)
		r.s.logSeq.Observe(entry.ID)
	})
	return err
}

func (r *logRepo) ListByItem(_ context.Context, itemID int64, limit, offset int) ([]*entity.LogEntry, error) {
	var out []*entity.LogEntry
	r.s.read(r.inTx, func() {
		matched := make([]*entity.LogEntry, 0)
		for i := len(r.s.logs) - 1; i >= 0; i-- {
			if r.s.logs[i].ItemID == itemID {
				matched = append(matched, r.s.logs[i])
			}
		}
		out = copyEntries(page(matched, limit, offset))
	})
	return out, nil
}

func (r *logRepo) List(_ context.Context, limit, offset int) ([]*entity.LogEntry, error) {
	var out []*entity.LogEntry
	r.s.read(r.inTx, func() {
		reversed := make([]*entity.LogEntry, 0, len(r.s.logs))
		for i := len(r.s.logs) - 1; i >= 0; i-- {
			reversed = append(reversed, r.s.logs[i])
		}
		out = copyEntries(page(reversed, limit, offset))
	})
	return out, nil
}

func (r *logRepo) SumDeltaByItem(_ context.Context, itemID int64) (int64, error) {
	var sum int64
	r.s.read(r.inTx, func() {
		for _, e := range r.s.logs {
			if e.ItemID == itemID {
				sum += e.Delta
			}
		}
	})
	return sum, nil
}

func (r *logRepo) MaxID(_ context.Context) (int64, error) {
	var maxID int64
	r.s.read(r.inTx, func() {
		if n := len(r.s.logs); n > 0 {
			maxID = r.s.logs[n-1].ID
		}
	})
	return maxID, nil
}

func (r *logRepo) NextID(_ context.Context) (int64, error) {
	return r.s.logSeq.Next(), nil
}

func copyEntries(list []*entity.LogEntry) []*entity.LogEntry {
	out := make([]*entity.LogEntry, 0, len(list))
	for _, e := range list {
		cp := *e
		out = append(out, &cp)
	}
	return out
}
