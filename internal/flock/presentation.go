package flock

import "fmt"

// Appearance is the presentation record for one agent: cosmetic attributes
// owned by the host, linked to the kinematic Agent record only by ID. The
// core never reads it, and collision handlers can never reach position,
// velocity or acceleration through it.
type Appearance struct {
	ID    int
	Color string
}

// CollisionFunc is the contract for host-supplied collision events: given the
// two appearances involved it returns their replacements. Handlers may change
// cosmetic fields (color) but not identity; ApplyCollision rejects a handler
// that tries to reassign IDs.
type CollisionFunc func(a, b Appearance) (Appearance, Appearance)

// Wardrobe holds the appearances of a population, indexed by agent ID.
type Wardrobe struct {
	byID map[int]Appearance
}

// NewWardrobe dresses every agent of the population in the given color.
func NewWardrobe(pop *Population, color string) *Wardrobe {
	w := &Wardrobe{byID: make(map[int]Appearance, pop.Len())}
	for i := 0; i < pop.Len(); i++ {
		id := pop.Agent(i).ID
		w.byID[id] = Appearance{ID: id, Color: color}
	}
	return w
}

// Get returns the appearance of the agent with the given id.
func (w *Wardrobe) Get(id int) (Appearance, bool) {
	a, ok := w.byID[id]
	return a, ok
}

// ApplyCollision runs the handler for a collision between agents a and b as
// reported by the host's collision system, and stores the resulting
// appearances.
func (w *Wardrobe) ApplyCollision(fn CollisionFunc, a, b int) error {
	if fn == nil {
		return nil
	}
	aa, ok := w.byID[a]
	if !ok {
		return fmt.Errorf("unknown agent id %d in collision", a)
	}
	bb, ok := w.byID[b]
	if !ok {
		return fmt.Errorf("unknown agent id %d in collision", b)
	}

	na, nb := fn(aa, bb)
	if na.ID != a || nb.ID != b {
		return fmt.Errorf("collision handler may not reassign agent ids (%d,%d -> %d,%d)",
			a, b, na.ID, nb.ID)
	}
	w.byID[a] = na
	w.byID[b] = nb
	return nil
}
