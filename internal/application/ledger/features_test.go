package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cucumber/godog"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

var errorKinds = map[string]error{
	"insufficient stock": domain.ErrInsufficientStock,
	"invalid input":      domain.ErrInvalidInput,
	"not found":          domain.ErrNotFound,
	"duplicate":          domain.ErrDuplicate,
}

type ledgerTestContext struct {
	store     *memory.Store
	ledger    *ledger.Ledger
	item      *entity.Item
	err       error
	succeeded int
}

func (c *ledgerTestContext) reset() {
	c.store = memory.NewStore()
	c.ledger = ledger.New(c.store, c.store.Items(), c.store.Logs(), nil)
	c.item = nil
	c.err = nil
	c.succeeded = 0
}

func (c *ledgerTestContext) anEmptyStore() error {
	c.reset()
	return nil
}

func (c *ledgerTestContext) anItemWithQuantityAndThreshold(qty, threshold int) error {
	item, err := c.ledger.CreateItem(context.Background(), ledger.CreateItemInput{
		Name:             "Lenguaje 5",
		Publisher:        "Santillana",
		InitialQuantity:  int64(qty),
		ReorderThreshold: int64(threshold),
	})
	if err != nil {
		return err
	}
	c.item = item
	return nil
}

func (c *ledgerTestContext) iApplyAMovementOf(action string, qty int) error {
	_, c.err = c.ledger.ApplyMovement(context.Background(), ledger.MovementInput{
		ItemID:   c.item.ID,
		Action:   entity.Action(action),
		Quantity: int64(qty),
	})
	return nil
}

func (c *ledgerTestContext) concurrentMovementsAreApplied(n int, action string, qty int) error {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		start = make(chan struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := c.ledger.ApplyMovement(context.Background(), ledger.MovementInput{
				ItemID:   c.item.ID,
				Action:   entity.Action(action),
				Quantity: int64(qty),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				c.succeeded++
			case !errors.Is(err, domain.ErrInsufficientStock):
				c.err = err
			}
		}()
	}
	close(start)
	wg.Wait()
	return c.err
}

func (c *ledgerTestContext) theMovementSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("expected success but got error: %v", c.err)
	}
	return nil
}

func (c *ledgerTestContext) theMovementFailsWith(kind string) error {
	want, ok := errorKinds[kind]
	if !ok {
		return fmt.Errorf("unknown error kind %q", kind)
	}
	if !errors.Is(c.err, want) {
		return fmt.Errorf("expected %q, got %v", kind, c.err)
	}
	return nil
}

func (c *ledgerTestContext) exactlyMovementsSucceed(n int) error {
	if c.succeeded != n {
		return fmt.Errorf("expected %d successful movements, got %d", n, c.succeeded)
	}
	return nil
}

func (c *ledgerTestContext) theItemQuantityIs(qty int) error {
	item, err := c.ledger.GetItem(context.Background(), c.item.ID)
	if err != nil {
		return err
	}
	if item.Quantity != int64(qty) {
		return fmt.Errorf("expected quantity %d, got %d", qty, item.Quantity)
	}
	c.item = item
	return nil
}

func (c *ledgerTestContext) theLastLogEntryIs(action string, delta int) error {
	logs, err := c.ledger.History(context.Background(), c.item.ID, 1, 0)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		return errors.New("log is empty")
	}
	if string(logs[0].Action) != action || logs[0].Delta != int64(delta) {
		return fmt.Errorf("expected %s %d, got %s %d", action, delta, logs[0].Action, logs[0].Delta)
	}
	return nil
}

func (c *ledgerTestContext) theLogHasEntries(n int) error {
	logs, err := c.ledger.ListLog(context.Background(), 0, 0)
	if err != nil {
		return err
	}
	if len(logs) != n {
		return fmt.Errorf("expected %d log entries, got %d", n, len(logs))
	}
	return nil
}

func (c *ledgerTestContext) theLogMatchesTheItemQuantity() error {
	res, err := c.ledger.Reconcile(context.Background(), c.item.ID, false)
	if err != nil {
		return err
	}
	if !res.Consistent() {
		return fmt.Errorf("stored %d, log sum %d", res.StoredQuantity, res.LogQuantity)
	}
	return nil
}

func (c *ledgerTestContext) theItemIsLowOnStock() error   { return c.lowStock(true) }
func (c *ledgerTestContext) theItemIsNotLowOnStock() error { return c.lowStock(false) }

func (c *ledgerTestContext) lowStock(want bool) error {
	low, err := c.ledger.ListLowStock(context.Background())
	if err != nil {
		return err
	}
	got := false
	for _, it := range low {
		if it.ID == c.item.ID {
			got = true
		}
	}
	if got != want {
		return fmt.Errorf("expected low stock %v, got %v", want, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &ledgerTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given
	ctx.Step(`^an empty store$`, tc.anEmptyStore)
	ctx.Step(`^an item with quantity (\d+) and reorder threshold (\d+)$`, tc.anItemWithQuantityAndThreshold)

	// When
	ctx.Step(`^I apply an (INBOUND|OUTBOUND) movement of (-?\d+)$`, tc.iApplyAMovementOf)
	ctx.Step(`^(\d+) concurrent (INBOUND|OUTBOUND) movements of (\d+) are applied$`, tc.concurrentMovementsAreApplied)

	// Then
	ctx.Step(`^the movement succeeds$`, tc.theMovementSucceeds)
	ctx.Step(`^the movement fails with "([^"]*)"$`, tc.theMovementFailsWith)
	ctx.Step(`^exactly (\d+) movements succeed$`, tc.exactlyMovementsSucceed)
	ctx.Step(`^the item quantity is (\d+)$`, tc.theItemQuantityIs)
	ctx.Step(`^the last log entry is (CREATED|INBOUND|OUTBOUND) with delta (-?\d+)$`, tc.theLastLogEntryIs)
	ctx.Step(`^the log has (\d+) entries$`, tc.theLogHasEntries)
	ctx.Step(`^the log matches the item quantity$`, tc.theLogMatchesTheItemQuantity)
	ctx.Step(`^the item is low on stock$`, tc.theItemIsLowOnStock)
	ctx.Step(`^the item is not low on stock$`, tc.theItemIsNotLowOnStock)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/ledger.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
