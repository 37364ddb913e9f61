package ecs

// RegistryStats is a point-in-time summary of a Registry.
type RegistryStats struct {
	EntityCount   int
	ReusableCount int
	IssuedCount   uint64
	TypeCount     int
	Collections   []CollectionStats
}

// CollectionStats describes one registered collection.
type CollectionStats struct {
	Key   TypeKey
	Name  string
	Len   int
	Cap   int
	Fixed bool
}

// CollectStats gathers statistics about the registry. Collections are listed
// in key order.
func (r *Registry) CollectStats() RegistryStats {
	stats := RegistryStats{
		EntityCount:   r.entityTypes.Len(),
		ReusableCount: len(r.pool.reusable),
		IssuedCount:   r.pool.issued(),
		TypeCount:     len(r.collections),
		Collections:   make([]CollectionStats, len(r.collections)),
	}

	for i, c := range r.collections {
		stats.Collections[i] = CollectionStats{
			Key:   TypeKey(i),
			Name:  r.names[i],
			Len:   c.Len(),
			Cap:   c.Cap(),
			Fixed: c.Fixed(),
		}
	}

	return stats
}
