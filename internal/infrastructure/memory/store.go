// Package memory implementa los puertos del Ledger en memoria del proceso.
// Las unidades de trabajo se serializan con el candado de escritura del Store y se
// revierten restaurando una instantánea si la función devuelve error.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/idgen"
)

var _ ledger.TxRunner = (*Store)(nil)

// Store almacén de artículos y bitácora.
type Store struct {
	mu      sync.RWMutex
	items   map[int64]*entity.Item
	logs    []*entity.LogEntry // en orden de confirmación (ID creciente)
	itemSeq *idgen.Sequence
	logSeq  *idgen.Sequence
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		items:   make(map[int64]*entity.Item),
		itemSeq: idgen.NewSequence(0),
		logSeq:  idgen.NewSequence(0),
	}
}

// Seed carga registros con ID explícito (importación de datos existentes) sin pasar por el Ledger.
// Las secuencias avanzan hasta el mayor ID cargado.
func (s *Store) Seed(items []entity.Item, logs []entity.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		it := items[i]
		if it.ID <= 0 {
			return domain.ErrInvalidInput
		}
		if _, ok := s.items[it.ID]; ok {
			return domain.ErrDuplicate
		}
		s.items[it.ID] = &it
		s.itemSeq.Observe(it.ID)
	}
	for i := range logs {
		e := logs[i]
		if e.ID <= s.logSeq.Current() {
			return domain.ErrInvalidInput
		}
		s.logs = append(s.logs, &e)
		s.logSeq.Observe(e.ID)
	}
	return nil
}

// Items repositorio de artículos fuera de transacción (cada llamada toma el candado).
func (s *Store) Items() repository.ItemRepository { return &itemRepo{s: s} }

// Logs repositorio de bitácora fuera de transacción.
func (s *Store) Logs() repository.LogEntryRepository { return &logRepo{s: s} }

// Run ejecuta fn con el candado de escritura tomado. Si fn falla se restaura el estado previo;
// los IDs consumidos no se reutilizan (igual que una secuencia SQL).
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	logRepo repository.LogEntryRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&itemRepo{s: s, inTx: true}, &logRepo{s: s, inTx: true}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	items   map[int64]entity.Item
	logsLen int
}

func (s *Store) snapshot() snapshot {
	items := make(map[int64]entity.Item, len(s.items))
	for id, it := range s.items {
		items[id] = *it
	}
	return snapshot{items: items, logsLen: len(s.logs)}
}

func (s *Store) restore(snap snapshot) {
	s.items = make(map[int64]*entity.Item, len(snap.items))
	for id := range snap.items {
		it := snap.items[id]
		s.items[id] = &it
	}
	for i := snap.logsLen; i < len(s.logs); i++ {
		s.logs[i] = nil
	}
	s.logs = s.logs[:snap.logsLen]
}

func (s *Store) read(inTx bool, fn func()) {
	if !inTx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

func (s *Store) write(inTx bool, fn func()) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

func sortedItemIDs(items map[int64]*entity.Item) []int64 {
	ids := make([]int64, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
