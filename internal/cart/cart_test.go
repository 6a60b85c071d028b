package cart

import (
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/helmet-storefront/internal/product"
)

var (
	aether = product.Product{ID: "1", Name: "Aether Carbon", Price: 7499}
	urban  = product.Product{ID: "2", Name: "Urban Lite", Price: 3999}
)

func quantities(s Snapshot) map[string]int {
	out := map[string]int{}
	for _, li := range s.Items {
		out[li.Product.ID] = li.Quantity
	}
	return out
}

func order(s Snapshot) []string {
	out := make([]string, 0, len(s.Items))
	for _, li := range s.Items {
		out = append(out, li.Product.ID)
	}
	return out
}

func TestAddItem_IncrementsExistingLine(t *testing.T) {
	c := New()
	for i := 0; i < 3; i++ {
		_, err := c.AddItem(aether)
		require.NoError(t, err)
	}

	require.Equal(t, 1, c.Len())
	qty, ok := c.Quantity("1")
	require.True(t, ok)
	assert.Equal(t, 3, qty)
}

func TestAddItem_Scenario(t *testing.T) {
	c := New()
	_, _ = c.AddItem(aether)
	_, _ = c.AddItem(aether)
	s, err := c.AddItem(urban)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, order(s))
	assert.Equal(t, map[string]int{"1": 2, "2": 1}, quantities(s))
	assert.Equal(t, int64(18997), s.Subtotal)
	assert.Equal(t, 3, s.ItemCount)
	assert.Equal(t, int64(18997), c.Subtotal())
	assert.Equal(t, 3, c.ItemCount())
}

func TestAddItem_KeepsInsertionOrder(t *testing.T) {
	c := New()
	_, _ = c.AddItem(aether)
	_, _ = c.AddItem(urban)
	s, _ := c.AddItem(aether)

	assert.Equal(t, []string{"1", "2"}, order(s), "incrementing must not move the line")
}

func TestAdd_RejectsInvalidInput(t *testing.T) {
	c := New()
	_, _ = c.AddItem(urban)

	_, err := c.AddItem(product.Product{ID: "9", Price: -1})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidArgument, ve.Code)
	assert.Contains(t, ve.Fields, "price")

	_, err = c.AddItem(product.Product{Price: 10})
	require.Error(t, err)

	for _, qty := range []int{0, -2} {
		s, err := c.Add(aether, qty)
		require.Error(t, err)
		assert.Equal(t, []string{"2"}, order(s), "rejected add must leave the cart unchanged")
	}
	assert.Equal(t, int64(3999), c.Subtotal())
}

func TestSetQuantity(t *testing.T) {
	c := New()
	_, _ = c.AddItem(aether)
	_, _ = c.AddItem(urban)

	s, applied, err := c.SetQuantity("1", 5)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 5, quantities(s)["1"])
	assert.Equal(t, int64(7499*5+3999), s.Subtotal)

	s, applied, _ = c.SetQuantity("1", 0)
	assert.True(t, applied)
	assert.Equal(t, []string{"2"}, order(s))

	s, applied, _ = c.SetQuantity("2", -4)
	assert.True(t, applied)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, int64(0), s.Subtotal)
}

func TestSetQuantity_UnknownIDIsNoop(t *testing.T) {
	c := New()
	_, _ = c.AddItem(aether)
	before := c.Snapshot()

	after, applied, err := c.SetQuantity("99", 3)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, before, after)
}

func TestSetQuantity_ZeroRemovesSingleItem(t *testing.T) {
	c := New()
	_, _ = c.AddItem(aether)

	s, _, _ := c.SetQuantity("1", 0)
	assert.Empty(t, s.Items)
	assert.Equal(t, int64(0), s.Subtotal)
	assert.Equal(t, 0, s.ItemCount)
}

func TestIncrementDecrement(t *testing.T) {
	c := New()
	_, _ = c.AddItem(aether)

	s, applied, err := c.Increment("1")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 2, quantities(s)["1"])

	s, _ = c.Decrement("1")
	assert.Equal(t, 1, quantities(s)["1"])

	s, applied = c.Decrement("1")
	assert.True(t, applied)
	assert.True(t, s.IsEmpty(), "decrementing quantity 1 removes the line")

	_, applied = c.Decrement("1")
	assert.False(t, applied)
	_, applied, _ = c.Increment("1")
	assert.False(t, applied, "increment does not resurrect a removed line")
}

func TestRemoveItem(t *testing.T) {
	c := New()
	_, _ = c.AddItem(aether)
	_, _ = c.AddItem(urban)

	s, applied := c.RemoveItem("1")
	assert.True(t, applied)
	assert.Equal(t, []string{"2"}, order(s))

	_, applied = c.RemoveItem("1")
	assert.False(t, applied)
}

func TestClear_Idempotent(t *testing.T) {
	c := New()
	_, _ = c.AddItem(aether)
	_, _ = c.AddItem(urban)

	first := c.Clear()
	second := c.Clear()
	assert.True(t, first.IsEmpty())
	assert.Equal(t, first, second)
	assert.Equal(t, 0, c.ItemCount())

	empty := New()
	assert.Equal(t, first, empty.Clear())
}

func TestSnapshot_IsACopy(t *testing.T) {
	c := New()
	s, _ := c.AddItem(aether)
	s.Items[0].Quantity = 40

	qty, _ := c.Quantity("1")
	assert.Equal(t, 1, qty)
}

func TestObserve(t *testing.T) {
	c := New()
	var kinds []EventKind
	c.Observe(func(ev Event) { kinds = append(kinds, ev.Kind) })

	_, _ = c.AddItem(aether)
	_, _ = c.AddItem(aether)
	_, _, _ = c.SetQuantity("99", 1)
	_, _ = c.RemoveItem("1")
	_, _ = c.AddItem(urban)
	c.Clear()
	c.Clear()

	assert.Equal(t, []EventKind{EventAdded, EventUpdated, EventRemoved, EventAdded, EventCleared}, kinds)
}

func TestIncrement_ConcurrentUpdatesAreNotLost(t *testing.T) {
	c := New()
	_, _ = c.AddItem(aether)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			c.Increment("1")
		}()
	}
	wg.Wait()

	qty, _ := c.Quantity("1")
	assert.Equal(t, workers+1, qty)
}

func TestAdd_RejectsQuantityOverflow(t *testing.T) {
	visor := product.Product{ID: "v", Name: "Free Visor", Price: 0}
	c := New()
	_, err := c.Add(visor, math.MaxInt)
	require.NoError(t, err)

	s, err := c.Add(visor, 2)
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidArgument, ve.Code)
	assert.Equal(t, math.MaxInt, quantities(s)["v"])

	_, err = c.AddItem(urban)
	require.Error(t, err, "item count would overflow")
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, math.MaxInt, c.ItemCount())
}

func TestAdd_RejectsSubtotalOverflow(t *testing.T) {
	c := New()
	_, _ = c.Add(urban, 2)

	_, err := c.Add(aether, math.MaxInt)
	require.Error(t, err)

	_, err = c.Add(aether, int(math.MaxInt64/aether.Price))
	require.Error(t, err, "line fits alone but not together with the existing subtotal")
	assert.Equal(t, int64(7998), c.Subtotal())
	assert.Equal(t, 2, c.ItemCount())
}

func TestSetQuantity_RejectsOverflow(t *testing.T) {
	c := New()
	_, _ = c.AddItem(aether)

	s, applied, err := c.SetQuantity("1", math.MaxInt/1000)
	require.Error(t, err)
	assert.False(t, applied)
	assert.Equal(t, 1, quantities(s)["1"])
	assert.Equal(t, int64(7499), c.Subtotal())
}

func TestIncrement_RejectsOverflow(t *testing.T) {
	visor := product.Product{ID: "v", Name: "Free Visor", Price: 0}
	c := New()
	_, _ = c.Add(visor, math.MaxInt)

	s, applied, err := c.Increment("v")
	require.Error(t, err)
	assert.False(t, applied)
	assert.Equal(t, math.MaxInt, quantities(s)["v"], "the line must not wrap or disappear")
}

func TestObserve_SequenceNumbers(t *testing.T) {
	c := New()
	var (
		mu   sync.Mutex
		seqs []uint64
	)
	c.Observe(func(ev Event) {
		mu.Lock()
		seqs = append(seqs, ev.Seq)
		mu.Unlock()
	})
	_, _ = c.AddItem(aether)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			c.Increment("1")
		}()
	}
	wg.Wait()

	slices.Sort(seqs)
	want := make([]uint64, 0, workers+1)
	for i := uint64(1); i <= workers+1; i++ {
		want = append(want, i)
	}
	assert.Equal(t, want, seqs)
}
