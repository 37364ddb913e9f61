package ecs

// swapRemove deletes slot from a pair of parallel dense arrays by moving the
// last element into it and truncating both by one. When slot is still within
// the returned slices, owners[slot] is the entity that was moved there.
// The vacated tail is zeroed so the backing array does not retain the value.
func swapRemove[T any](data []T, owners []EntityId, slot int) ([]T, []EntityId) {
	last := len(data) - 1

	if slot != last {
		data[slot] = data[last]
		owners[slot] = owners[last]
	}

	var zero T
	data[last] = zero
	owners[last] = InvalidEntity

	return data[:last], owners[:last]
}
