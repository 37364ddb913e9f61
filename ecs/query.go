package ecs

// Each2 calls fn for every entity that has both an A and a B. It walks the
// smaller collection and looks up the other. Neither collection may be mutated
// from fn; queue changes on a Commands buffer instead.
func Each2[A, B Component](r *Registry, fn func(EntityId, *A, *B)) {
	ca, cb := TypeOf[A](r).coll, TypeOf[B](r).coll

	ca.begin()
	defer ca.end()
	cb.begin()
	defer cb.end()

	if ca.Len() <= cb.Len() {
		for i, e := range ca.entities {
			if b := cb.GetMut(e); b != nil {
				fn(e, &ca.data[i], b)
			}
		}
		return
	}

	for i, e := range cb.entities {
		if a := ca.GetMut(e); a != nil {
			fn(e, a, &cb.data[i])
		}
	}
}

// Each3 calls fn for every entity that has an A, a B and a C.
func Each3[A, B, C Component](r *Registry, fn func(EntityId, *A, *B, *C)) {
	ca, cb, cc := TypeOf[A](r).coll, TypeOf[B](r).coll, TypeOf[C](r).coll

	ca.begin()
	defer ca.end()
	cb.begin()
	defer cb.end()
	cc.begin()
	defer cc.end()

	smallest := ca.Len()
	which := 0
	if cb.Len() < smallest {
		smallest = cb.Len()
		which = 1
	}
	if cc.Len() < smallest {
		which = 2
	}

	switch which {
	case 0:
		for i, e := range ca.entities {
			if b := cb.GetMut(e); b != nil {
				if c := cc.GetMut(e); c != nil {
					fn(e, &ca.data[i], b, c)
				}
			}
		}
	case 1:
		for i, e := range cb.entities {
			if a := ca.GetMut(e); a != nil {
				if c := cc.GetMut(e); c != nil {
					fn(e, a, &cb.data[i], c)
				}
			}
		}
	case 2:
		for i, e := range cc.entities {
			if a := ca.GetMut(e); a != nil {
				if b := cb.GetMut(e); b != nil {
					fn(e, a, b, &cc.data[i])
				}
			}
		}
	}
}
