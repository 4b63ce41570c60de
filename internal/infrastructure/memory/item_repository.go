package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*itemRepo)(nil)

type itemRepo struct {
	s    *Store
	inTx bool
}

func (r *itemRepo) Create(_ context.Context, item *entity.Item) error {
	var err error
	r.s.write(r.inTx, func() {
		if _, ok := r.s.items[item.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		cp := *item
		r.s.items[item.ID] = &cp
		r.s.itemSeq.Observe(item.ID)
	})
	return err
}

func (r *itemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	var out *entity.Item
	r.s.read(r.inTx, func() {
		if it, ok := r.s.items[id]; ok {
			cp := *it
			out = &cp
		}
	})
	return out, nil
}

// GetForUpdate dentro de Run el candado de escritura ya está tomado.
func (r *itemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	r.s.read(r.inTx, func() {
		ids := page(sortedItemIDs(r.s.items), limit, offset)
		out = make([]*entity.Item, 0, len(ids))
		for _, id := range ids {
			cp := *r.s.items[id]
			out = append(out, &cp)
		}
	})
	return out, nil
}

func (r *itemRepo) UpdateQuantity(_ context.Context, id, quantity int64) error {
	var err error
	r.s.write(r.inTx, func() {
		it, ok := r.s.items[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		if quantity < 0 {
			err = domain.ErrInsufficientStock
			return
		}
		it.Quantity = quantity
	})
	return err
}

func (r *itemRepo) MaxID(_ context.Context) (int64, error) {
	var maxID int64
	r.s.read(r.inTx, func() {
		for id := range r.s.items {
			if id > maxID {
				maxID = id
			}
		}
	})
	return maxID, nil
}

func (r *itemRepo) NextID(_ context.Context) (int64, error) {
	return r.s.itemSeq.Next(), nil
}
