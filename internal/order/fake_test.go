package order

import (
	"context"
	"sort"
	"sync"

	"storefront-be/internal/cart"
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
)

// world is a shared in-memory backing store for the order, cart and
// product fakes. Every call is atomic; a failed transaction replays its
// undo log. There is no isolation between concurrent transactions, which
// is what lets two placements race for the same order number.
type world struct {
	mu          sync.Mutex
	products    map[int64]*product.Product
	carts       map[int64]*cart.Cart // by user id
	orders      map[int64]*Order
	nextOrderID int64
	nextItemID  int64
}

func newWorld() *world {
	return &world{
		products: map[int64]*product.Product{},
		carts:    map[int64]*cart.Cart{},
		orders:   map[int64]*Order{},
	}
}

type undoKey struct{}

type undoLog struct{ ops []func() }

func record(ctx context.Context, op func()) {
	if u, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		u.ops = append(u.ops, op)
	}
}

type worldTx struct{ w *world }

func (t worldTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	u := &undoLog{}
	if err := fn(context.WithValue(ctx, undoKey{}, u)); err != nil {
		t.w.mu.Lock()
		for i := len(u.ops) - 1; i >= 0; i-- {
			u.ops[i]()
		}
		t.w.mu.Unlock()
		return err
	}
	return nil
}

func (w *world) addProduct(id int64, name, price string, stock int) {
	w.products[id] = &product.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Stock: stock, Active: true}
}

func (w *world) fillCart(userID int64, lines map[int64]int) {
	uid := userID
	c := &cart.Cart{ID: userID, UserID: &uid}
	ids := make([]int64, 0, len(lines))
	for pid := range lines {
		ids = append(ids, pid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, pid := range ids {
		w.nextItemID++
		c.Items = append(c.Items, cart.CartItem{
			ID: w.nextItemID, CartID: c.ID, ProductID: pid, Quantity: lines[pid], Price: w.products[pid].Price,
		})
	}
	c.Recalculate()
	w.carts[userID] = c
}

func (w *world) stock(id int64) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.products[id].Stock
}

func copyOrder(o *Order) *Order {
	cp := *o
	cp.Items = append([]OrderItem(nil), o.Items...)
	return &cp
}

type fakeProducts struct {
	product.Repository
	w *world
}

func (f fakeProducts) FindByIDsForUpdate(ctx context.Context, ids []int64) (map[int64]*product.Product, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := map[int64]*product.Product{}
	for _, id := range ids {
		if p, ok := f.w.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (f fakeProducts) DecrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	p, ok := f.w.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	record(ctx, func() { p.Stock += qty })
	return true, nil
}

func (f fakeProducts) IncrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	p, ok := f.w.products[id]
	if !ok {
		return false, nil
	}
	p.Stock += qty
	record(ctx, func() { p.Stock -= qty })
	return true, nil
}

type fakeCarts struct {
	cart.Repository
	w *world
}

func (f fakeCarts) FindForUpdate(ctx context.Context, id cart.Identity) (*cart.Cart, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	c, ok := f.w.carts[id.UserID()]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	cp := *c
	cp.Items = append([]cart.CartItem(nil), c.Items...)
	return &cp, nil
}

func (f fakeCarts) Clear(ctx context.Context, cartID int64) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, c := range f.w.carts {
		c := c
		if c.ID == cartID {
			items, total := c.Items, c.TotalAmount
			c.Items, c.TotalAmount = nil, decimal.Zero
			record(ctx, func() { c.Items, c.TotalAmount = items, total })
			return nil
		}
	}
	return cart.ErrCartNotFound
}

type fakeOrders struct{ w *world }

func (f fakeOrders) Create(ctx context.Context, o *Order) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, existing := range f.w.orders {
		if existing.OrderNumber == o.OrderNumber {
			return ErrOrderNumberTaken
		}
	}
	f.w.nextOrderID++
	o.ID = f.w.nextOrderID
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	f.w.orders[o.ID] = copyOrder(o)
	id := o.ID
	record(ctx, func() { delete(f.w.orders, id) })
	return nil
}

func (f fakeOrders) Count(ctx context.Context) (int64, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	return int64(len(f.w.orders)), nil
}

func (f fakeOrders) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, o := range f.w.orders {
		if o.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeOrders) FindByID(ctx context.Context, id int64) (*Order, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	o, ok := f.w.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (f fakeOrders) FindByIDForUpdate(ctx context.Context, id int64) (*Order, error) {
	return f.FindByID(ctx, id)
}

func (f fakeOrders) FindByNumber(ctx context.Context, number string) (*Order, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, o := range f.w.orders {
		if o.OrderNumber == number {
			return copyOrder(o), nil
		}
	}
	return nil, ErrOrderNotFound
}

func (f fakeOrders) list(keep func(o *Order) bool) []*Order {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []*Order{}
	for _, o := range f.w.orders {
		if keep(o) {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f fakeOrders) ListByUser(ctx context.Context, userID int64) ([]*Order, error) {
	return f.list(func(o *Order) bool { return o.UserID == userID }), nil
}

func (f fakeOrders) ListAll(ctx context.Context) ([]*Order, error) {
	return f.list(func(*Order) bool { return true }), nil
}

func (f fakeOrders) ListByStatus(ctx context.Context, status Status) ([]*Order, error) {
	return f.list(func(o *Order) bool { return o.Status == status }), nil
}

func (f fakeOrders) SaveStatus(ctx context.Context, o *Order) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	stored, ok := f.w.orders[o.ID]
	if !ok {
		return ErrOrderNotFound
	}
	prevStatus, prevPayment := stored.Status, stored.PaymentStatus
	stored.Status, stored.PaymentStatus = o.Status, o.PaymentStatus
	record(ctx, func() { stored.Status, stored.PaymentStatus = prevStatus, prevPayment })
	return nil
}
