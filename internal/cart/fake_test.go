package cart

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory Repository. Paired with serialTx it behaves like
// a database where every transaction holds a global lock.
type memStore struct {
	mu         sync.Mutex
	nextCartID int64
	nextItemID int64
	carts      map[int64]Cart
	items      map[int64]CartItem
}

func newMemStore() *memStore {
	return &memStore{carts: map[int64]Cart{}, items: map[int64]CartItem{}}
}

type memSnapshot struct {
	nextCartID, nextItemID int64
	carts                  map[int64]Cart
	items                  map[int64]CartItem
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{nextCartID: s.nextCartID, nextItemID: s.nextItemID,
		carts: map[int64]Cart{}, items: map[int64]CartItem{}}
	for k, v := range s.carts {
		snap.carts[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCartID, s.nextItemID = snap.nextCartID, snap.nextItemID
	s.carts, s.items = snap.carts, snap.items
}

func (s *memStore) owned(c Cart, id Identity) bool {
	if id.IsGuest() {
		return c.GuestToken != nil && *c.GuestToken == id.GuestToken()
	}
	return c.UserID != nil && *c.UserID == id.UserID()
}

func (s *memStore) load(c Cart) *Cart {
	out := c
	out.Items = []CartItem{}
	for _, it := range s.items {
		if it.CartID == c.ID {
			out.Items = append(out.Items, it)
		}
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].ID < out.Items[j].ID })
	return &out
}

func (s *memStore) GetOrCreateForUpdate(ctx context.Context, id Identity) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carts {
		if s.owned(c, id) {
			return s.load(c), nil
		}
	}
	s.nextCartID++
	c := Cart{ID: s.nextCartID, TotalAmount: decimal.Zero}
	if id.IsGuest() {
		tok := id.GuestToken()
		c.GuestToken = &tok
	} else {
		uid := id.UserID()
		c.UserID = &uid
	}
	s.carts[c.ID] = c
	return s.load(c), nil
}

func (s *memStore) FindForUpdate(ctx context.Context, id Identity) (*Cart, error) {
	return s.Find(ctx, id)
}

func (s *memStore) Find(ctx context.Context, id Identity) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carts {
		if s.owned(c, id) {
			return s.load(c), nil
		}
	}
	return nil, ErrCartNotFound
}

func (s *memStore) FindItem(ctx context.Context, itemID int64) (*CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok {
		return nil, ErrCartItemNotFound
	}
	return &it, nil
}

func (s *memStore) InsertItem(ctx context.Context, item *CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextItemID++
	item.ID = s.nextItemID
	s.items[item.ID] = *item
	return nil
}

func (s *memStore) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	return s.updateItem(itemID, func(it *CartItem) { it.Quantity = quantity })
}

func (s *memStore) MoveItem(ctx context.Context, itemID, toCartID int64) error {
	return s.updateItem(itemID, func(it *CartItem) { it.CartID = toCartID })
}

func (s *memStore) updateItem(itemID int64, fn func(it *CartItem)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok {
		return ErrCartItemNotFound
	}
	fn(&it)
	s.items[itemID] = it
	return nil
}

func (s *memStore) DeleteItem(ctx context.Context, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[itemID]; !ok {
		return ErrCartItemNotFound
	}
	delete(s.items, itemID)
	return nil
}

func (s *memStore) UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok {
		return ErrCartNotFound
	}
	c.TotalAmount = total
	s.carts[cartID] = c
	return nil
}

func (s *memStore) Clear(ctx context.Context, cartID int64) error {
	s.mu.Lock()
	for id, it := range s.items {
		if it.CartID == cartID {
			delete(s.items, id)
		}
	}
	s.mu.Unlock()
	return s.UpdateTotal(ctx, cartID, decimal.Zero)
}

func (s *memStore) Delete(ctx context.Context, cartID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[cartID]; !ok {
		return ErrCartNotFound
	}
	delete(s.carts, cartID)
	for id, it := range s.items {
		if it.CartID == cartID {
			delete(s.items, id)
		}
	}
	return nil
}

// serialTx runs one transaction at a time and restores the store on error.
type serialTx struct {
	mu    sync.Mutex
	store *memStore
}

func (t *serialTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
