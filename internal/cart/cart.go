package cart

import (
	"sync"

	"github.com/vasiliy-maslov/frutilize/internal/catalog"
	"github.com/vasiliy-maslov/frutilize/internal/customer"
	"github.com/vasiliy-maslov/frutilize/internal/order"
)

// Store holds the transient view state: one cart and one last-known customer
// per client key. It is a disposable cache, never a source of truth — orders
// are what gets persisted. Subscribers are notified after every change.
type Store struct {
	mu        sync.Mutex
	carts     map[string][]order.LineItem
	customers map[string]customer.Customer
	subs      []func(key string)
}

func NewStore() *Store {
	return &Store{
		carts:     make(map[string][]order.LineItem),
		customers: make(map[string]customer.Customer),
	}
}

// OnChange registers a callback invoked with the client key after each cart
// mutation. Must be called before the store is shared.
func (s *Store) OnChange(fn func(key string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// AddItem puts one more unit of the product into the cart, appending a new
// line item for products not yet present.
func (s *Store) AddItem(key string, p catalog.Product) {
	s.mu.Lock()
	items := s.carts[key]
	found := false
	for i := range items {
		if items[i].Product.ID == p.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, order.LineItem{Product: p, Quantity: 1})
	}
	s.carts[key] = items
	s.mu.Unlock()
	s.notify(key)
}

func (s *Store) RemoveItem(key, productID string) {
	s.mu.Lock()
	items := s.carts[key]
	out := items[:0]
	for _, item := range items {
		if item.Product.ID != productID {
			out = append(out, item)
		}
	}
	s.carts[key] = out
	s.mu.Unlock()
	s.notify(key)
}

// UpdateQuantity sets the quantity of a line item; a quantity of zero or less
// removes it.
func (s *Store) UpdateQuantity(key, productID string, quantity float64) {
	if quantity <= 0 {
		s.RemoveItem(key, productID)
		return
	}

	s.mu.Lock()
	items := s.carts[key]
	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()
	s.notify(key)
}

func (s *Store) Clear(key string) {
	s.mu.Lock()
	delete(s.carts, key)
	s.mu.Unlock()
	s.notify(key)
}

// Items returns a copy of the cart's line items.
func (s *Store) Items(key string) []order.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[key]
	out := make([]order.LineItem, len(items))
	copy(out, items)
	return out
}

func (s *Store) Total(key string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, item := range s.carts[key] {
		total += item.Product.Price * item.Quantity
	}
	return total
}

func (s *Store) TotalItems(key string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0.0
	for _, item := range s.carts[key] {
		count += item.Quantity
	}
	return count
}

// SetCustomer remembers the last-known customer profile for prefilling the
// checkout form.
func (s *Store) SetCustomer(key string, c customer.Customer) {
	s.mu.Lock()
	s.customers[key] = c
	s.mu.Unlock()
	s.notify(key)
}

func (s *Store) Customer(key string) (customer.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[key]
	return c, ok
}

func (s *Store) ClearCustomer(key string) {
	s.mu.Lock()
	delete(s.customers, key)
	s.mu.Unlock()
	s.notify(key)
}

func (s *Store) notify(key string) {
	s.mu.Lock()
	subs := make([]func(string), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(key)
	}
}
