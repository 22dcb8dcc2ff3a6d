package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/adapter/sheet"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/config"
	domainErrors "github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/errors"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/test"
)

var fixedNow = time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

func orderRow(id string, deadline time.Time, status model.OrderStatus) model.RawRow {
	return model.RawRow{
		id, "shopee", "C-" + id, "", string(status),
		fixedNow.Add(-2 * time.Hour).Format(time.RFC3339), deadline.Format(time.RFC3339),
		"", "100", "", "GHN", fixedNow.Add(-2 * time.Hour).Format(time.RFC3339), "importer",
	}
}

func newTestUseCase(t *testing.T, store *test.OrderStoreStub) *OrderUseCase {
	t.Helper()
	cfg := &config.Config{
		StoreTimeout:     time.Second,
		DefaultActor:     "system",
		SyncErrorHistory: 5,
		Location:         time.UTC,
	}
	uc := NewOrderUseCase(store, cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func loadedUseCase(t *testing.T, store *test.OrderStoreStub) *OrderUseCase {
	t.Helper()
	uc := newTestUseCase(t, store)
	if err := uc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return uc
}

func defaultStore() *test.OrderStoreStub {
	return test.NewOrderStoreStub(
		orderRow("ORD-1", fixedNow.Add(6*time.Hour), model.OrderStatusPending),
		orderRow("ORD-2", fixedNow.Add(90*time.Minute), model.OrderStatusPicking),
		orderRow("ORD-3", fixedNow.Add(-5*time.Minute), model.OrderStatusAssigned),
	)
}

func TestLoadReplacesOrdersAndMarksSync(t *testing.T) {
	store := defaultStore()
	uc := loadedUseCase(t, store)

	orders := uc.Orders()
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	status := uc.SyncStatus()
	if !status.Connected || status.InFlight || status.LastSyncAt == nil || !status.LastSyncAt.Equal(fixedNow) {
		t.Fatalf("unexpected sync status %+v", status)
	}

	store.Rows = store.Rows[:1]
	if err := uc.Load(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := len(uc.Orders()); got != 1 {
		t.Fatalf("expected full replace to 1 order, got %d", got)
	}
	if _, err := uc.Order("ORD-2"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected removed order to be gone, got %v", err)
	}
}

func TestLoadFailureKeepsPreviousOrders(t *testing.T) {
	store := defaultStore()
	uc := loadedUseCase(t, store)

	store.PullFn = func(context.Context) ([]model.RawRow, error) {
		return nil, domainErrors.ErrStoreUnavailable
	}
	err := uc.Load(context.Background())
	if !errors.Is(err, domainErrors.ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}
	if got := len(uc.Orders()); got != 3 {
		t.Fatalf("expected previous orders kept, got %d", got)
	}
	status := uc.SyncStatus()
	if status.Connected {
		t.Fatal("expected disconnected status")
	}
	if len(status.Errors) != 1 || status.Errors[0].Operation != model.SyncOperationPull {
		t.Fatalf("expected pull error recorded, got %+v", status.Errors)
	}
}

func TestLoadRecordsDecodeIssues(t *testing.T) {
	bad := orderRow("ORD-9", fixedNow.Add(time.Hour), model.OrderStatusPending)
	bad[model.ColTotalValue] = "lots"
	uc := loadedUseCase(t, test.NewOrderStoreStub(bad, model.RawRow{"", "shopee"}))

	if got := len(uc.Orders()); got != 1 {
		t.Fatalf("expected defaulted row kept, got %d", got)
	}
	status := uc.SyncStatus()
	if len(status.Errors) != 2 {
		t.Fatalf("expected two decode issues, got %+v", status.Errors)
	}
	for _, e := range status.Errors {
		if e.Operation != model.SyncOperationDecode {
			t.Fatalf("unexpected operation %q", e.Operation)
		}
	}
}

func TestLoadTimeoutIsStoreUnavailable(t *testing.T) {
	store := defaultStore()
	uc := loadedUseCase(t, store)
	uc.timeout = 20 * time.Millisecond

	store.PullFn = func(ctx context.Context) ([]model.RawRow, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := uc.Load(context.Background()); !errors.Is(err, domainErrors.ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}
	if got := len(uc.Orders()); got != 3 {
		t.Fatalf("expected last good orders, got %d", got)
	}
}

func TestUpdateDeadlineReclassifies(t *testing.T) {
	store := defaultStore()
	uc := loadedUseCase(t, store)

	before, err := uc.Order("ORD-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.Priority != model.PriorityP3 {
		t.Fatalf("expected P3 before update, got %s", before.Priority)
	}

	deadline := fixedNow.Add(30 * time.Minute)
	ctx := WithActor(context.Background(), "alice")
	view, err := uc.Update(ctx, "ORD-1", model.OrderPatch{SLADeadline: &deadline})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if view.Priority != model.PriorityP1 || view.Urgency != model.UrgencyCritical {
		t.Fatalf("expected P1 critical, got %s %s", view.Priority, view.Urgency)
	}

	after, _ := uc.Order("ORD-1")
	if after.Priority != model.PriorityP1 {
		t.Fatalf("expected repository read to show P1, got %s", after.Priority)
	}
	if after.UpdatedBy != "alice" || !after.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected audit stamp, got %q %v", after.UpdatedBy, after.UpdatedAt)
	}

	if store.Pushes() != 1 {
		t.Fatalf("expected one push, got %d", store.Pushes())
	}
	pushed, issues := sheet.DecodeRows(store.Snapshot(), fixedNow, time.UTC)
	if len(issues) != 0 || len(pushed) != 3 {
		t.Fatalf("expected full set pushed, got %d orders, issues %v", len(pushed), issues)
	}
	if !pushed[0].SLADeadline.Equal(deadline) {
		t.Fatalf("expected pushed deadline %v, got %v", deadline, pushed[0].SLADeadline)
	}
}

func TestUpdateUsesDefaultActor(t *testing.T) {
	uc := loadedUseCase(t, defaultStore())
	notes := "fragile"
	view, err := uc.Update(context.Background(), "ORD-2", model.OrderPatch{Notes: &notes})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if view.UpdatedBy != "system" || view.Notes != "fragile" {
		t.Fatalf("unexpected view %+v", view.Order)
	}
}

func TestUpdateRejectedPushReconciles(t *testing.T) {
	store := defaultStore()
	uc := loadedUseCase(t, store)

	store.PushFn = func(context.Context, []model.RawRow) error {
		return domainErrors.ErrWriteRejected
	}
	carrier := "Ninja Van"
	_, err := uc.Update(context.Background(), "ORD-2", model.OrderPatch{CarrierName: &carrier})
	if !errors.Is(err, domainErrors.ErrWriteRejected) {
		t.Fatalf("expected write rejected, got %v", err)
	}
	if store.Pulls() != 2 {
		t.Fatalf("expected reconciliation pull, got %d pulls", store.Pulls())
	}

	fresh := loadedUseCase(t, test.NewOrderStoreStub(store.Snapshot()...))
	got, want := uc.Orders(), fresh.Orders()
	if len(got) != len(want) {
		t.Fatalf("expected %d orders, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].CarrierName != want[i].CarrierName || !got[i].UpdatedAt.Equal(want[i].UpdatedAt) {
			t.Fatalf("order %d differs from fresh load: %+v vs %+v", i, got[i], want[i])
		}
	}
	if got[1].CarrierName != "GHN" {
		t.Fatalf("expected optimistic change discarded, got %q", got[1].CarrierName)
	}
	status := uc.SyncStatus()
	if !status.Connected || len(status.Errors) == 0 || status.Errors[0].Operation != model.SyncOperationPush {
		t.Fatalf("unexpected sync status %+v", status)
	}
}

func TestFailedReconciliationRestoresPreviousOrders(t *testing.T) {
	store := defaultStore()
	uc := loadedUseCase(t, store)

	store.PushFn = func(context.Context, []model.RawRow) error { return domainErrors.ErrStoreUnavailable }
	store.PullFn = func(context.Context) ([]model.RawRow, error) { return nil, domainErrors.ErrStoreUnavailable }

	staff := "staff-7"
	if _, err := uc.Assign(context.Background(), "ORD-1", staff); !errors.Is(err, domainErrors.ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}
	order, _ := uc.Order("ORD-1")
	if order.AssignedTo != "" || order.Status != model.OrderStatusPending {
		t.Fatalf("expected pre-mutation state, got %q %q", order.AssignedTo, order.Status)
	}
	if uc.SyncStatus().Connected {
		t.Fatal("expected disconnected status")
	}
}

func TestUpdateMissingOrder(t *testing.T) {
	store := defaultStore()
	uc := loadedUseCase(t, store)
	notes := "x"
	if _, err := uc.Update(context.Background(), "NOPE", model.OrderPatch{Notes: &notes}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if store.Pushes() != 0 {
		t.Fatal("push must not run for missing orders")
	}
}

func TestUpdateValidatesPatch(t *testing.T) {
	uc := loadedUseCase(t, defaultStore())
	bogus := model.OrderStatus("teleported")
	zero := time.Time{}

	cases := []model.OrderPatch{
		{},
		{Status: &bogus},
		{SLADeadline: &zero},
		{Items: []model.LineItem{{SKU: "A", Quantity: -1}}},
	}
	for _, patch := range cases {
		if _, err := uc.Update(context.Background(), "ORD-1", patch); !errors.Is(err, domainErrors.ErrInvalidPatch) {
			t.Fatalf("expected invalid patch for %+v, got %v", patch, err)
		}
	}
	if _, err := uc.Assign(context.Background(), "ORD-1", ""); !errors.Is(err, domainErrors.ErrInvalidPatch) {
		t.Fatalf("expected invalid patch for empty staff, got %v", err)
	}
}

func TestBulkUpdateSinglePush(t *testing.T) {
	store := defaultStore()
	uc := loadedUseCase(t, store)

	carrier := "J&T"
	views, err := uc.BulkUpdate(context.Background(), []string{"ORD-1", "ORD-3", "ORD-1", "MISSING"}, model.OrderPatch{CarrierName: &carrier})
	if err != nil {
		t.Fatalf("bulk update failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected two updated orders, got %d", len(views))
	}
	if store.Pushes() != 1 {
		t.Fatalf("expected exactly one push, got %d", store.Pushes())
	}
	for _, o := range uc.Orders() {
		want := "J&T"
		if o.ID == "ORD-2" {
			want = "GHN"
		}
		if o.CarrierName != want {
			t.Fatalf("order %s: expected carrier %q, got %q", o.ID, want, o.CarrierName)
		}
	}

	if _, err := uc.BulkUpdate(context.Background(), []string{"X", "Y"}, model.OrderPatch{CarrierName: &carrier}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssignAndComplete(t *testing.T) {
	uc := loadedUseCase(t, defaultStore())

	view, err := uc.Assign(context.Background(), "ORD-1", "staff-2")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if view.AssignedTo != "staff-2" || view.Status != model.OrderStatusAssigned {
		t.Fatalf("unexpected assignment %+v", view.Order)
	}

	view, err = uc.Complete(context.Background(), "ORD-1")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if view.Status != model.OrderStatusCompleted || view.CompletedAt == nil || !view.CompletedAt.Equal(fixedNow) {
		t.Fatalf("unexpected completion %+v", view.Order)
	}
}

func TestStatusCompletedStampsCompletionTime(t *testing.T) {
	uc := loadedUseCase(t, defaultStore())
	done := model.OrderStatusCompleted
	view, err := uc.Update(context.Background(), "ORD-2", model.OrderPatch{Status: &done})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if view.CompletedAt == nil || !view.CompletedAt.Equal(fixedNow) {
		t.Fatalf("expected completion stamp, got %v", view.CompletedAt)
	}
}

func TestOptimisticStateVisibleDuringPush(t *testing.T) {
	store := defaultStore()
	uc := loadedUseCase(t, store)

	started := make(chan struct{})
	release := make(chan struct{})
	store.PushFn = func(context.Context, []model.RawRow) error {
		close(started)
		<-release
		return nil
	}

	done := make(chan error, 1)
	notes := "rush"
	go func() {
		_, err := uc.Update(context.Background(), "ORD-1", model.OrderPatch{Notes: &notes})
		done <- err
	}()

	<-started
	order, _ := uc.Order("ORD-1")
	if order.Notes != "rush" {
		t.Fatalf("expected optimistic notes, got %q", order.Notes)
	}
	if !uc.SyncStatus().InFlight {
		t.Fatal("expected push in flight")
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("update failed: %v", err)
	}
}

func TestMutationsAreSerialized(t *testing.T) {
	store := defaultStore()
	uc := loadedUseCase(t, store)

	var active, maxActive int32
	release := make(chan struct{})
	first := make(chan struct{})
	var once sync.Once
	store.PushFn = func(context.Context, []model.RawRow) error {
		n := atomic.AddInt32(&active, 1)
		defer atomic.AddInt32(&active, -1)
		for {
			m := atomic.LoadInt32(&maxActive)
			if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
				break
			}
		}
		once.Do(func() { close(first) })
		<-release
		return nil
	}

	var wg sync.WaitGroup
	notesA, notesB := "a", "b"
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := uc.Update(context.Background(), "ORD-1", model.OrderPatch{Notes: &notesA}); err != nil {
			t.Errorf("update a failed: %v", err)
		}
	}()
	<-first
	go func() {
		defer wg.Done()
		if _, err := uc.Update(context.Background(), "ORD-2", model.OrderPatch{Notes: &notesB}); err != nil {
			t.Errorf("update b failed: %v", err)
		}
	}()

	time.Sleep(20 * time.Millisecond)
	if store.Pushes() != 1 {
		t.Fatalf("second push must wait for the first, got %d pushes", store.Pushes())
	}
	close(release)
	wg.Wait()

	if maxActive != 1 {
		t.Fatalf("expected no overlapping pushes, got %d", maxActive)
	}
	pushed, _ := sheet.DecodeRows(store.Snapshot(), fixedNow, time.UTC)
	if pushed[0].Notes != "a" || pushed[1].Notes != "b" {
		t.Fatalf("expected both changes in the final push, got %q %q", pushed[0].Notes, pushed[1].Notes)
	}
}

func TestSyncErrorHistoryIsBounded(t *testing.T) {
	store := defaultStore()
	uc := loadedUseCase(t, store)
	store.PullFn = func(context.Context) ([]model.RawRow, error) { return nil, domainErrors.ErrStoreUnavailable }

	for i := 0; i < 8; i++ {
		_ = uc.Load(context.Background())
	}
	if got := len(uc.SyncStatus().Errors); got != 5 {
		t.Fatalf("expected 5 retained errors, got %d", got)
	}
}

func TestActorFromContext(t *testing.T) {
	if got := ActorFrom(context.Background(), "system"); got != "system" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := ActorFrom(WithActor(context.Background(), "  "), "system"); got != "system" {
		t.Fatalf("expected fallback for blank actor, got %q", got)
	}
	if got := ActorFrom(WithActor(context.Background(), "bob"), "system"); got != "bob" {
		t.Fatalf("expected bob, got %q", got)
	}
}
