package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"restaurant_service/internal/core/codec"
	"restaurant_service/internal/core/domain"
	"restaurant_service/internal/ports/inbound"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeOrderRepo stores rows the way the real table does: items as encoded
// text plus cached total and count columns. AppendItem deliberately releases
// its lock between read and write so a missing per-order serialization in the
// service shows up as lost updates.
type fakeOrderRepo struct {
	mu           sync.Mutex
	nextID       int
	rows         map[int]*fakeRow
	reconciles   int
	reconcileErr error
	createErr    error
}

type fakeRow struct {
	customer string
	created  time.Time
	items    string
	total    float64
	count    int
}

func newFakeOrderRepo(nextID int) *fakeOrderRepo {
	return &fakeOrderRepo{nextID: nextID, rows: make(map[int]*fakeRow)}
}

func (f *fakeOrderRepo) Create(_ context.Context, customerName string) (int, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.rows[id] = &fakeRow{customer: customerName, created: time.Now(), items: "[]"}
	return id, nil
}

func (f *fakeOrderRepo) AppendItem(_ context.Context, orderID int, item domain.LineItem) error {
	f.mu.Lock()
	row, ok := f.rows[orderID]
	if !ok {
		f.mu.Unlock()
		return domain.ErrOrderNotFound
	}
	items, total, count := row.items, row.total, row.count
	f.mu.Unlock()

	frags := codec.SplitTopLevelArray(items)
	frags = append(frags, domain.EncodeLineItem(item))
	runtime.Gosched() // widen the read-modify-write window

	f.mu.Lock()
	row.items = codec.EncodeArray(frags)
	row.total = total + item.Price*float64(item.Quantity)
	row.count = count + item.Quantity
	f.mu.Unlock()
	return nil
}

func (f *fakeOrderRepo) Get(_ context.Context, orderID int) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return f.toOrder(orderID, row), nil
}

func (f *fakeOrderRepo) List(_ context.Context) ([]domain.Order, error) {
	return f.all(false), nil
}

func (f *fakeOrderRepo) ReconstructAll(_ context.Context) ([]domain.Order, error) {
	return f.all(true), nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, orderID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[orderID]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(f.rows, orderID)
	return nil
}

func (f *fakeOrderRepo) ReconcileIDSequence(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconciles++
	if f.reconcileErr != nil {
		return f.reconcileErr
	}
	maxID := 0
	for id := range f.rows {
		if id > maxID {
			maxID = id
		}
	}
	f.nextID = maxID + 1
	return nil
}

func (f *fakeOrderRepo) all(ascending bool) []domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			less := ids[j] < ids[i]
			if !ascending {
				less = ids[j] > ids[i]
			}
			if less {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.toOrder(id, f.rows[id]))
	}
	return out
}

func (f *fakeOrderRepo) toOrder(id int, row *fakeRow) domain.Order {
	return domain.Order{
		ID:           id,
		CustomerName: row.customer,
		CreatedAt:    row.created,
		Items:        domain.DecodeLineItems(row.items),
		TotalPrice:   row.total,
		ItemCount:    row.count,
	}
}

type fakeMenuRepo struct {
	items map[int]domain.MenuItem
}

func (f *fakeMenuRepo) List(context.Context) ([]domain.MenuItem, error) {
	out := make([]domain.MenuItem, 0, len(f.items))
	for _, m := range f.items {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMenuRepo) Get(_ context.Context, id int) (domain.MenuItem, error) {
	m, ok := f.items[id]
	if !ok {
		return domain.MenuItem{}, domain.ErrMenuItemNotFound
	}
	return m, nil
}

func (f *fakeMenuRepo) Create(_ context.Context, item domain.MenuItem) (int, error) {
	id := len(f.items) + 1
	item.ID = id
	f.items[id] = item
	return id, nil
}

func (f *fakeMenuRepo) Update(_ context.Context, item domain.MenuItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return domain.ErrMenuItemNotFound
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeMenuRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.items[id]; !ok {
		return domain.ErrMenuItemNotFound
	}
	delete(f.items, id)
	return nil
}

type recordedEvent struct {
	kind    string
	orderID int
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEvents) OrderCreated(_ context.Context, order domain.Order) {
	f.record("created", order.ID)
}

func (f *fakeEvents) OrderItemAdded(_ context.Context, orderID int, _ domain.LineItem) {
	f.record("item_added", orderID)
}

func (f *fakeEvents) OrderDeleted(_ context.Context, orderID int) {
	f.record("deleted", orderID)
}

func (f *fakeEvents) record(kind string, orderID int) {
	f.mu.Lock()
	f.events = append(f.events, recordedEvent{kind, orderID})
	f.mu.Unlock()
}

type fakeCache struct {
	mu    sync.Mutex
	store map[int]domain.Order
}

func newFakeCache() *fakeCache { return &fakeCache{store: make(map[int]domain.Order)} }

func (c *fakeCache) Get(_ context.Context, id int) (domain.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.store[id]
	return o, ok
}

func (c *fakeCache) Set(_ context.Context, o domain.Order) {
	c.mu.Lock()
	c.store[o.ID] = o
	c.mu.Unlock()
}

func (c *fakeCache) BulkSet(_ context.Context, orders []domain.Order) {
	c.mu.Lock()
	for _, o := range orders {
		c.store[o.ID] = o
	}
	c.mu.Unlock()
}

func (c *fakeCache) Delete(_ context.Context, id int) {
	c.mu.Lock()
	delete(c.store, id)
	c.mu.Unlock()
}

func (c *fakeCache) Len(context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

func defaultMenu() *fakeMenuRepo {
	return &fakeMenuRepo{items: map[int]domain.MenuItem{
		1: {ID: 1, Name: "Margherita Pizza", Price: 12.99, Category: "Main"},
		4: {ID: 4, Name: "Tiramisu", Price: 6.99, Category: "Dessert"},
	}}
}

func newTestService(repo *fakeOrderRepo) (*OrderService, *fakeCache, *fakeEvents) {
	c := newFakeCache()
	ev := &fakeEvents{}
	return NewOrderService(repo, defaultMenu(), c, ev, zap.NewNop()), c, ev
}

func TestCreateUsesStorageAssignedID(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo(7)
	svc, cache, events := newTestService(repo)

	order, err := svc.Create(ctx, "Alice", []inbound.ItemRequest{{MenuItemID: 4, Quantity: 2}})
	require.NoError(t, err)

	assert.Equal(t, 7, order.ID)
	assert.Equal(t, "Alice", order.CustomerName)
	require.Len(t, order.Items, 1)
	assert.Equal(t, domain.LineItem{MenuItemID: 4, Name: "Tiramisu", Price: 6.99, Quantity: 2}, order.Items[0])
	assert.InDelta(t, 13.98, order.TotalPrice, 1e-9)
	assert.Equal(t, 2, order.ItemCount)

	_, ok := cache.Get(ctx, 7)
	assert.True(t, ok)
	require.Len(t, events.events, 1)
	assert.Equal(t, recordedEvent{"created", 7}, events.events[0])
}

func TestCreateStorageFailure(t *testing.T) {
	repo := newFakeOrderRepo(1)
	repo.createErr = domain.ErrStorageUnavailable
	svc, cache, events := newTestService(repo)

	_, err := svc.Create(context.Background(), "Alice", nil)
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Zero(t, cache.Len(context.Background()))
	assert.Empty(t, events.events)
	assert.Empty(t, repo.rows)
}

func TestAddItemMaintainsDerivedFields(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo(1)
	svc, _, _ := newTestService(repo)

	order, err := svc.Create(ctx, "Bob", nil)
	require.NoError(t, err)
	assert.Empty(t, order.Items)
	assert.Zero(t, order.TotalPrice)

	adds := []struct {
		menuItemID int
		quantity   int
	}{
		{4, 2}, {1, 1}, {4, 3},
	}
	for _, a := range adds {
		got, err := svc.AddItem(ctx, order.ID, a.menuItemID, a.quantity)
		require.NoError(t, err)
		assert.InDelta(t, got.ItemsTotal(), got.TotalPrice, 1e-9)
		assert.Equal(t, got.ItemsCount(), got.ItemCount)
	}
}

func TestAddItemUnknownOrder(t *testing.T) {
	repo := newFakeOrderRepo(1)
	svc, _, events := newTestService(repo)

	_, err := svc.AddItem(context.Background(), 42, 4, 1)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Empty(t, events.events)
}

func TestAddItemUnknownMenuItemRecordsPlaceholder(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo(1)
	svc, _, _ := newTestService(repo)

	order, err := svc.Create(ctx, "Carol", nil)
	require.NoError(t, err)

	got, err := svc.AddItem(ctx, order.ID, 99, 1)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Item #99", got.Items[0].Name)
	assert.Zero(t, got.Items[0].Price)
	assert.Zero(t, got.TotalPrice)
	assert.Equal(t, 1, got.ItemCount)
}

func TestConcurrentAppendsToOneOrderAreSerialized(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo(1)
	svc, _, _ := newTestService(repo)

	order, err := svc.Create(ctx, "Dave", nil)
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, order.ID, 4, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, n)
	assert.Equal(t, n, got.ItemCount)
	assert.InDelta(t, float64(n)*6.99, got.TotalPrice, 1e-6)
	assert.InDelta(t, got.ItemsTotal(), got.TotalPrice, 1e-6)
}

func TestDeleteTriggersReconcile(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo(7)
	svc, cache, events := newTestService(repo)

	order, err := svc.Create(ctx, "Alice", nil)
	require.NoError(t, err)
	require.Equal(t, 7, order.ID)

	require.NoError(t, svc.Delete(ctx, 7))
	assert.Equal(t, 1, repo.reconciles)
	assert.Zero(t, cache.Len(ctx))
	assert.Equal(t, recordedEvent{"deleted", 7}, events.events[len(events.events)-1])

	// With no live rows the generator starts over at 1.
	next, err := svc.Create(ctx, "Bob", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, next.ID)
}

func TestDeleteNotFoundSkipsReconcile(t *testing.T) {
	repo := newFakeOrderRepo(1)
	svc, _, events := newTestService(repo)

	err := svc.Delete(context.Background(), 9)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Zero(t, repo.reconciles)
	assert.Empty(t, events.events)
}

func TestReconcileFailureDoesNotFailDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo(1)
	svc, _, _ := newTestService(repo)

	order, err := svc.Create(ctx, "Alice", nil)
	require.NoError(t, err)

	repo.reconcileErr = errors.New("sequence introspection denied")
	require.NoError(t, svc.Delete(ctx, order.ID))
	assert.Equal(t, 1, repo.reconciles)
}

func TestListIsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo(1)
	svc, _, _ := newTestService(repo)

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, name, nil)
		require.NoError(t, err)
	}

	orders, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{orders[0].ID, orders[1].ID, orders[2].ID})
}

func TestReloadMirrorIsOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo(1)
	svc, cache, _ := newTestService(repo)

	for _, name := range []string{"a", "b"} {
		_, err := svc.Create(ctx, name, nil)
		require.NoError(t, err)
	}
	// Fresh service sharing the same storage, empty mirror.
	svc2 := NewOrderService(repo, defaultMenu(), cache, &fakeEvents{}, zap.NewNop())

	n, err := svc2.ReloadMirror(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, cache.Len(ctx))
}

func TestMenuDeleteTriggersReconcile(t *testing.T) {
	ctx := context.Background()
	orders := newFakeOrderRepo(1)
	menu := defaultMenu()
	svc := NewMenuService(menu, orders, zap.NewNop())

	require.NoError(t, svc.Delete(ctx, 4))
	assert.Equal(t, 1, orders.reconciles)

	err := svc.Delete(ctx, 4)
	require.ErrorIs(t, err, domain.ErrMenuItemNotFound)
	assert.Equal(t, 1, orders.reconciles)
}

func TestMenuUpdateDoesNotAlterOrderSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo(1)
	menu := defaultMenu()
	c := newFakeCache()
	orderSvc := NewOrderService(repo, menu, c, &fakeEvents{}, zap.NewNop())
	menuSvc := NewMenuService(menu, repo, zap.NewNop())

	order, err := orderSvc.Create(ctx, "Eve", []inbound.ItemRequest{{MenuItemID: 4, Quantity: 1}})
	require.NoError(t, err)
	require.InDelta(t, 6.99, order.TotalPrice, 1e-9)

	require.NoError(t, menuSvc.Update(ctx, domain.MenuItem{ID: 4, Name: "Tiramisu Royale", Price: 9.99, Category: "Dessert"}))

	// The stored snapshot keeps the price and name from add time.
	got, err := repo.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Tiramisu", got.Items[0].Name)
	assert.InDelta(t, 6.99, got.Items[0].Price, 1e-9)
	assert.InDelta(t, 6.99, got.TotalPrice, 1e-9)

	// New appends see the updated catalog entry.
	got, err = orderSvc.AddItem(ctx, order.ID, 4, 1)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Tiramisu Royale", got.Items[1].Name)
	assert.InDelta(t, 9.99, got.Items[1].Price, 1e-9)
}

func TestMenuUpdateDoesNotReconcile(t *testing.T) {
	orders := newFakeOrderRepo(1)
	menu := defaultMenu()
	svc := NewMenuService(menu, orders, zap.NewNop())

	require.NoError(t, svc.Update(context.Background(), domain.MenuItem{ID: 4, Name: "Tiramisu", Price: 7.49, Category: "Dessert"}))
	assert.Zero(t, orders.reconciles)
}
