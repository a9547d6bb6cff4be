package food

// Collection is the ordered list of items mirrored from the backend.
// The zero value is an empty collection.
//
// Collection is a value type: mutating methods work in place on the
// receiver, and Items returns a copy so callers never share the backing
// array.
type Collection struct {
	items []Item
}

// NewCollection returns a collection holding a copy of items in the given
// order.
func NewCollection(items []Item) Collection {
	c := Collection{items: make([]Item, len(items))}
	copy(c.items, items)
	return c
}

// Len returns the number of items.
func (c *Collection) Len() int {
	return len(c.items)
}

// Items returns a copy of the items in order.
func (c *Collection) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Index returns the position of the first item with the given ID, or -1.
func (c *Collection) Index(id int) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the first item with the given ID.
func (c *Collection) Find(id int) (Item, bool) {
	i := c.Index(id)
	if i < 0 {
		return Item{}, false
	}
	return c.items[i], true
}

// Append adds an item at the end.
func (c *Collection) Append(it Item) {
	c.items = append(c.items, it)
}

// Replace swaps the item with the same ID for it, keeping its position.
// It reports whether a matching item was found.
func (c *Collection) Replace(it Item) bool {
	i := c.Index(it.ID)
	if i < 0 {
		return false
	}
	c.items[i] = it
	return true
}

// Remove deletes the first item with the given ID. It reports whether an
// item was removed; an unknown ID leaves the collection untouched.
func (c *Collection) Remove(id int) bool {
	i := c.Index(id)
	if i < 0 {
		return false
	}
	out := make([]Item, 0, len(c.items)-1)
	out = append(out, c.items[:i]...)
	out = append(out, c.items[i+1:]...)
	c.items = out
	return true
}
