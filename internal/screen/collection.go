package screen

// Keyed is an entity with a stable id.
type Keyed interface {
	Key() string
}

// Find returns the item with id.
func Find[T Keyed](items []T, id string) (T, bool) {
	for _, it := range items {
		if it.Key() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Upsert replaces the item with the same id in place, or appends it. The
// input slice is never modified.
func Upsert[T Keyed](items []T, item T) []T {
	for i, it := range items {
		if it.Key() == item.Key() {
			out := append([]T(nil), items...)
			out[i] = item
			return out
		}
	}
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

// Replace swaps the item with the same id. Unknown ids leave the
// collection as is.
func Replace[T Keyed](items []T, item T) []T {
	for i, it := range items {
		if it.Key() == item.Key() {
			out := append([]T(nil), items...)
			out[i] = item
			return out
		}
	}
	return items
}

// Remove drops every item with id, preserving order.
func Remove[T Keyed](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.Key() != id {
			out = append(out, it)
		}
	}
	return out
}
