package cart

import (
	"math"
	"slices"
	"sync"

	"github.com/wichananm65/helmet-storefront/internal/product"
)

// LineItem pairs a product snapshot with its quantity. Quantity is always >= 1
// while the item is in a cart.
type LineItem struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Total is price × quantity for this line.
func (li LineItem) Total() int64 {
	return li.Product.Price * int64(li.Quantity)
}

// Snapshot is a copy of the cart taken right after an operation.
type Snapshot struct {
	Items     []LineItem `json:"items"`
	Subtotal  int64      `json:"subtotal"`
	ItemCount int        `json:"itemCount"`
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

type EventKind string

const (
	EventAdded   EventKind = "added"
	EventUpdated EventKind = "updated"
	EventRemoved EventKind = "removed"
	EventCleared EventKind = "cleared"
)

// Event describes one applied mutation. ProductID is empty for EventCleared.
// Seq numbers the mutations of one cart from 1 in the order they were
// applied; observers may receive concurrent events out of order and can use
// Seq to restore it.
type Event struct {
	Kind      EventKind
	ProductID string
	Seq       uint64
	Snapshot  Snapshot
}

type Observer func(Event)

// Cart holds line items in insertion order with at most one item per product
// id. Every method runs under the cart's lock, so read-modify-write steps such
// as Increment never lose updates. Observers are called after the lock is
// released, so events of concurrent mutations can arrive out of order.
//
// A mutation that would overflow a quantity, the item count or the subtotal
// is rejected and the cart is left unchanged.
type Cart struct {
	mu        sync.Mutex
	items     []LineItem
	seq       uint64
	observers []Observer
}

func New() *Cart {
	return &Cart{}
}

// Observe registers fn to receive every applied mutation.
func (c *Cart) Observe(fn Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// AddItem adds one unit of p.
func (c *Cart) AddItem(p product.Product) (Snapshot, error) {
	return c.Add(p, 1)
}

// Add appends p with qty units, or raises the quantity of its existing line
// in place.
func (c *Cart) Add(p product.Product, qty int) (Snapshot, error) {
	if err := validateProduct(p); err != nil {
		return c.Snapshot(), err
	}
	if qty <= 0 {
		return c.Snapshot(), NewInvalidArgument(ErrMsgQuantityPositive)
	}

	c.mu.Lock()
	kind := EventAdded
	i := c.indexOf(p.ID)
	next, price := qty, p.Price
	if i >= 0 {
		kind = EventUpdated
		cur := c.items[i].Quantity
		if cur > math.MaxInt-qty {
			s := c.snapshotLocked()
			c.mu.Unlock()
			return s, NewInvalidArgument(ErrMsgQuantityRange)
		}
		next, price = cur+qty, c.items[i].Product.Price
	}
	if !c.fitsLocked(i, price, next) {
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s, NewInvalidArgument(ErrMsgQuantityRange)
	}
	if i >= 0 {
		c.items[i].Quantity = next
	} else {
		c.items = append(c.items, LineItem{Product: p, Quantity: qty})
	}
	ev := c.eventLocked(kind, p.ID)
	observers := c.observers
	c.mu.Unlock()

	notify(observers, ev)
	return ev.Snapshot, nil
}

// SetQuantity sets the quantity of id to n; n <= 0 removes the line. It
// reports false, changing nothing, when id is not in the cart.
func (c *Cart) SetQuantity(id string, n int) (Snapshot, bool, error) {
	return c.update(id, func(int) (int, error) { return n, nil })
}

func (c *Cart) Increment(id string) (Snapshot, bool, error) {
	return c.update(id, func(q int) (int, error) {
		if q == math.MaxInt {
			return 0, NewInvalidArgument(ErrMsgQuantityRange)
		}
		return q + 1, nil
	})
}

// Decrement lowers the quantity by one; a line at quantity 1 is removed.
func (c *Cart) Decrement(id string) (Snapshot, bool) {
	s, applied, _ := c.update(id, func(q int) (int, error) { return q - 1, nil })
	return s, applied
}

// RemoveItem drops the line for id. It reports false when id is not in the
// cart.
func (c *Cart) RemoveItem(id string) (Snapshot, bool) {
	s, applied, _ := c.update(id, func(int) (int, error) { return 0, nil })
	return s, applied
}

// update reads the current quantity and writes next(current) in one locked
// step. An error from next, or a result that does not fit, leaves the cart
// unchanged.
func (c *Cart) update(id string, next func(current int) (int, error)) (Snapshot, bool, error) {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s, false, nil
	}

	n, err := next(c.items[i].Quantity)
	if err == nil && n > 0 && !c.fitsLocked(i, c.items[i].Product.Price, n) {
		err = NewInvalidArgument(ErrMsgQuantityRange)
	}
	if err != nil {
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s, false, err
	}

	kind := EventUpdated
	if n > 0 {
		c.items[i].Quantity = n
	} else {
		c.items = slices.Delete(c.items, i, i+1)
		kind = EventRemoved
	}
	ev := c.eventLocked(kind, id)
	observers := c.observers
	c.mu.Unlock()

	notify(observers, ev)
	return ev.Snapshot, true, nil
}

// Clear empties the cart. Clearing an empty cart is a no-op and emits no
// event.
func (c *Cart) Clear() Snapshot {
	c.mu.Lock()
	if len(c.items) == 0 {
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s
	}
	c.items = nil
	ev := c.eventLocked(EventCleared, "")
	observers := c.observers
	c.mu.Unlock()

	notify(observers, ev)
	return ev.Snapshot
}

// fitsLocked reports whether line i (a new line when i < 0) can hold qty
// units at price without overflowing its total, the subtotal or the item
// count. qty must be positive.
func (c *Cart) fitsLocked(i int, price int64, qty int) bool {
	if price > 0 && int64(qty) > math.MaxInt64/price {
		return false
	}
	line := price * int64(qty)

	var total int64
	var count int
	for j, li := range c.items {
		if j == i {
			continue
		}
		total += li.Total()
		count += li.Quantity
	}
	return total <= math.MaxInt64-line && count <= math.MaxInt-qty
}

func (c *Cart) eventLocked(kind EventKind, productID string) Event {
	c.seq++
	return Event{Kind: kind, ProductID: productID, Seq: c.seq, Snapshot: c.snapshotLocked()}
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Quantity reports the quantity of id, or false when it is not in the cart.
func (c *Cart) Quantity(id string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i].Quantity, true
	}
	return 0, false
}

func (c *Cart) Subtotal() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return subtotal(c.items)
}

func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return itemCount(c.items)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Cart) snapshotLocked() Snapshot {
	items := slices.Clone(c.items)
	if items == nil {
		items = []LineItem{}
	}
	return Snapshot{Items: items, Subtotal: subtotal(items), ItemCount: itemCount(items)}
}

func (c *Cart) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(li LineItem) bool { return li.Product.ID == id })
}

func subtotal(items []LineItem) int64 {
	var total int64
	for _, li := range items {
		total += li.Total()
	}
	return total
}

func itemCount(items []LineItem) int {
	var count int
	for _, li := range items {
		count += li.Quantity
	}
	return count
}

func validateProduct(p product.Product) error {
	errs := map[string]string{}
	if p.ID == "" {
		errs["id"] = "id is required"
	}
	if p.Price < 0 {
		errs["price"] = "price must be >= 0"
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Code: CodeInvalidArgument, Message: ErrMsgInvalidProduct, Fields: errs}
}

func notify(observers []Observer, ev Event) {
	for _, fn := range observers {
		fn(ev)
	}
}
