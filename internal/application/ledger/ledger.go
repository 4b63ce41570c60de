package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const instrumentationName = "github.com/jhoicas/stock-ledger/internal/application/ledger"

// Ledger es el único escritor de Item.Quantity y el único creador de LogEntry.
// No guarda estado entre llamadas: todo vive en los almacenamientos inyectados.
type Ledger struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	logRepo  repository.LogEntryRepository
	log      *logger.Logger

	idem    IdempotencyStore
	idemTTL time.Duration

	now     func() time.Time
	newTxID func() string

	tracer    trace.Tracer
	movements metric.Int64Counter
}

// Option configura dependencias opcionales del Ledger.
type Option func(*Ledger)

// WithIdempotency activa la guardia de RequestID con el TTL indicado.
func WithIdempotency(store IdempotencyStore, ttl time.Duration) Option {
	return func(l *Ledger) {
		l.idem = store
		l.idemTTL = ttl
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New construye el Ledger. itemRepo y logRepo se usan solo para lecturas fuera de transacción.
func New(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	logRepo repository.LogEntryRepository,
	log *logger.Logger,
	opts ...Option,
) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	l := &Ledger{
		txRunner: txRunner,
		itemRepo: itemRepo,
		logRepo:  logRepo,
		log:      log.Component("ledger"),
		idemTTL:  24 * time.Hour,
		now:      time.Now,
		newTxID:  func() string { return uuid.New().String() },
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(l)
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter("ledger.movements",
		metric.WithDescription("Mutaciones de stock procesadas por acción y resultado"))
	if err != nil {
		l.log.Warn().Err(err).Msg("contador ledger.movements no disponible")
		counter, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("ledger.movements")
	}
	l.movements = counter
	return l
}

func (l *Ledger) record(ctx context.Context, action entity.Action, result string) {
	l.movements.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", string(action)),
		attribute.String("result", result),
	))
}

// appendLog asigna el siguiente ID de la secuencia y anexa el registro en la misma unidad de trabajo.
func (l *Ledger) appendLog(
	ctx context.Context,
	logRepo repository.LogEntryRepository,
	action entity.Action,
	item *entity.Item,
	delta int64,
	now time.Time,
) (*entity.LogEntry, error) {
	id, err := logRepo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	entry := &entity.LogEntry{
		ID:            id,
		TransactionID: l.newTxID(),
		Timestamp:     now,
		Action:        action,
		ItemID:        item.ID,
		ItemName:      item.Name,
		Delta:         delta,
	}
	if err := logRepo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
