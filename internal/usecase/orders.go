package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/adapter/sheet"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/config"
	domainErrors "github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/errors"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/repository"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/sla"
)

// OrderUseCase holds the in-memory order set and mediates every mutation
// against the external store.
//
// Loads and mutations are serialized by mutateMu, so a mutation arriving while
// a push is in flight waits for it. Readers take mu and always observe a whole
// snapshot: a mutation builds a new slice and swaps it in.
type OrderUseCase struct {
	store        repository.OrderStore
	logger       *slog.Logger
	now          func() time.Time
	loc          *time.Location
	timeout      time.Duration
	defaultActor string
	errorHistory int

	mutateMu sync.Mutex

	mu     sync.RWMutex
	orders []model.Order
	index  map[string]int
	status model.SyncStatus
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(store repository.OrderStore, cfg *config.Config, logger *slog.Logger) *OrderUseCase {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &OrderUseCase{
		store:        store,
		logger:       logger,
		now:          func() time.Time { return time.Now().In(loc) },
		loc:          loc,
		timeout:      cfg.StoreTimeout,
		defaultActor: cfg.DefaultActor,
		errorHistory: cfg.SyncErrorHistory,
		index:        map[string]int{},
	}
}

// Now returns the repository clock reading.
func (u *OrderUseCase) Now() time.Time {
	return u.now()
}

// Load replaces the order set with the store contents. On failure the
// previous set is kept.
func (u *OrderUseCase) Load(ctx context.Context) error {
	u.mutateMu.Lock()
	defer u.mutateMu.Unlock()
	return u.load(ctx)
}

func (u *OrderUseCase) load(ctx context.Context) error {
	u.setInFlight(true)
	defer u.setInFlight(false)

	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	rows, err := u.store.Pull(ctx)
	if err != nil {
		err = storeError(ctx, err)
		u.recordFailure(model.SyncOperationPull, err)
		u.logger.Error("order pull failed", slog.String("error", err.Error()))
		return err
	}

	now := u.now()
	orders, issues := sheet.DecodeRows(rows, now, u.loc)
	for _, issue := range issues {
		u.logger.Warn("order row defaulted", slog.Int("row", issue.Row), slog.String("column", issue.Column), slog.String("issue", issue.Message))
	}

	u.mu.Lock()
	u.replace(orders)
	u.status.LastSyncAt = &now
	u.status.Connected = true
	for _, issue := range issues {
		u.appendError(model.SyncError{At: now, Operation: model.SyncOperationDecode, Message: issue.String()})
	}
	u.mu.Unlock()

	u.logger.Info("orders loaded", slog.Int("orders", len(orders)), slog.Int("issues", len(issues)))
	return nil
}

// Update applies patch to one order and pushes the full set.
func (u *OrderUseCase) Update(ctx context.Context, id string, patch model.OrderPatch) (model.OrderView, error) {
	views, err := u.BulkUpdate(ctx, []string{id}, patch)
	if err != nil {
		return model.OrderView{}, err
	}
	return views[0], nil
}

// BulkUpdate applies patch to every known order in ids and pushes once.
// Unknown ids are ignored; ErrNotFound is returned when none is known.
func (u *OrderUseCase) BulkUpdate(ctx context.Context, ids []string, patch model.OrderPatch) ([]model.OrderView, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	changed, now, err := u.mutate(ctx, ids, patch)
	if err != nil {
		return nil, err
	}
	return sla.Views(changed, now), nil
}

// Assign hands the order to staffID and marks it assigned.
func (u *OrderUseCase) Assign(ctx context.Context, id, staffID string) (model.OrderView, error) {
	if staffID == "" {
		return model.OrderView{}, fmt.Errorf("%w: staff id is required", domainErrors.ErrInvalidPatch)
	}
	status := model.OrderStatusAssigned
	return u.Update(ctx, id, model.OrderPatch{AssignedTo: &staffID, Status: &status})
}

// Complete marks the order completed now.
func (u *OrderUseCase) Complete(ctx context.Context, id string) (model.OrderView, error) {
	status := model.OrderStatusCompleted
	completed := u.now()
	return u.Update(ctx, id, model.OrderPatch{Status: &status, CompletedAt: &completed})
}

func validatePatch(patch model.OrderPatch) error {
	if patch.IsEmpty() {
		return fmt.Errorf("%w: nothing to change", domainErrors.ErrInvalidPatch)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domainErrors.ErrInvalidPatch, *patch.Status)
	}
	if patch.SLADeadline != nil && patch.SLADeadline.IsZero() {
		return fmt.Errorf("%w: deadline must be set", domainErrors.ErrInvalidPatch)
	}
	if patch.TotalValue != nil && patch.TotalValue.IsNegative() {
		return fmt.Errorf("%w: value must not be negative", domainErrors.ErrInvalidPatch)
	}
	for _, item := range patch.Items {
		if item.Quantity < 0 {
			return fmt.Errorf("%w: negative quantity for %q", domainErrors.ErrInvalidPatch, item.SKU)
		}
	}
	return nil
}

// mutate publishes the patched set before pushing it. A failed push triggers
// a reload; if the reload fails too the pre-mutation set is restored.
func (u *OrderUseCase) mutate(ctx context.Context, ids []string, patch model.OrderPatch) ([]model.Order, time.Time, error) {
	u.mutateMu.Lock()
	defer u.mutateMu.Unlock()

	now := u.now()
	actor := ActorFrom(ctx, u.defaultActor)

	u.mu.RLock()
	prev := u.orders
	next := make([]model.Order, len(prev))
	copy(next, prev)
	var changed []model.Order
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		i, ok := u.index[id]
		if !ok {
			continue
		}
		order := next[i].Clone()
		patch.Apply(&order)
		if order.Status == model.OrderStatusCompleted && order.CompletedAt == nil {
			completed := now
			order.CompletedAt = &completed
		}
		order.UpdatedAt = now
		order.UpdatedBy = actor
		next[i] = order
		changed = append(changed, order)
	}
	u.mu.RUnlock()

	if len(changed) == 0 {
		return nil, now, fmt.Errorf("%w: %v", domainErrors.ErrNotFound, ids)
	}

	u.mu.Lock()
	u.orders = next
	u.mu.Unlock()

	if err := u.push(ctx, next, now); err != nil {
		u.logger.Warn("order push failed, reloading", slog.Int("orders", len(changed)), slog.String("error", err.Error()))
		if reloadErr := u.load(context.WithoutCancel(ctx)); reloadErr != nil {
			u.mu.Lock()
			u.replace(prev)
			u.mu.Unlock()
			u.logger.Error("reload after failed push failed, restored previous orders", slog.String("error", reloadErr.Error()))
		}
		return nil, now, err
	}

	u.logger.Info("orders updated", slog.Int("orders", len(changed)), slog.String("actor", actor))
	return changed, now, nil
}

func (u *OrderUseCase) push(ctx context.Context, orders []model.Order, now time.Time) error {
	u.setInFlight(true)
	defer u.setInFlight(false)

	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if err := u.store.Push(ctx, sheet.EncodeRows(orders, now)); err != nil {
		err = storeError(ctx, err)
		u.recordFailure(model.SyncOperationPush, err)
		return err
	}

	u.mu.Lock()
	synced := u.now()
	u.status.LastSyncAt = &synced
	u.status.Connected = true
	u.mu.Unlock()
	return nil
}

// Orders returns a copy of the current order set.
func (u *OrderUseCase) Orders() []model.Order {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]model.Order, len(u.orders))
	for i, o := range u.orders {
		out[i] = o.Clone()
	}
	return out
}

// Views classifies the current order set at the repository clock.
func (u *OrderUseCase) Views() []model.OrderView {
	return sla.Views(u.Orders(), u.now())
}

// Order returns one classified order.
func (u *OrderUseCase) Order(id string) (model.OrderView, error) {
	u.mu.RLock()
	i, ok := u.index[id]
	var order model.Order
	if ok {
		order = u.orders[i].Clone()
	}
	u.mu.RUnlock()
	if !ok {
		return model.OrderView{}, fmt.Errorf("%w: order %q", domainErrors.ErrNotFound, id)
	}
	return sla.View(order, u.now()), nil
}

// SyncStatus reports the state of synchronization with the store.
func (u *OrderUseCase) SyncStatus() model.SyncStatus {
	u.mu.RLock()
	defer u.mu.RUnlock()
	status := u.status
	if u.status.LastSyncAt != nil {
		last := *u.status.LastSyncAt
		status.LastSyncAt = &last
	}
	status.Errors = append([]model.SyncError(nil), u.status.Errors...)
	return status
}

// replace must be called with mu held.
func (u *OrderUseCase) replace(orders []model.Order) {
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		index[o.ID] = i
	}
	u.orders = orders
	u.index = index
}

func (u *OrderUseCase) setInFlight(v bool) {
	u.mu.Lock()
	u.status.InFlight = v
	u.mu.Unlock()
}

func (u *OrderUseCase) recordFailure(op model.SyncOperation, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if errors.Is(err, domainErrors.ErrStoreUnavailable) {
		u.status.Connected = false
	}
	u.appendError(model.SyncError{At: u.now(), Operation: op, Message: err.Error()})
}

// appendError must be called with mu held.
func (u *OrderUseCase) appendError(e model.SyncError) {
	limit := u.errorHistory
	if limit <= 0 {
		limit = 1
	}
	errs := append([]model.SyncError{e}, u.status.Errors...)
	if len(errs) > limit {
		errs = errs[:limit]
	}
	u.status.Errors = errs
}

func (u *OrderUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.timeout)
}

// storeError classifies an expired store call as an unavailable store.
func storeError(ctx context.Context, err error) error {
	if errors.Is(err, domainErrors.ErrStoreUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domainErrors.ErrStoreUnavailable, err)
	}
	return err
}
