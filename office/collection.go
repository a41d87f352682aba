package office

import (
	"github.com/wippyai/comproxy/proxy"
)

// collection is the shared shape of the model's indexed collections.
type collection[T proxy.Disposer] struct {
	*proxy.Object
	ctor proxy.Constructor[T]
}

// Count returns the number of items.
func (c *collection[T]) Count() int {
	return proxy.Get(c.Object, "Count", 0)
}

// Item returns the item at a 1-based index or with the given name. Each call
// yields a new proxy registered with the collection.
func (c *collection[T]) Item(key any) (T, error) {
	return proxy.Fetch(c.Object, "Item", c.ctor, key)
}

// All returns every item. Items that cannot be fetched are skipped.
func (c *collection[T]) All() []T {
	n := c.Count()
	out := make([]T, 0, n)
	for i := 1; i <= n; i++ {
		item, err := c.Item(i)
		if err != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}
