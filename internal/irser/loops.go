package irser

import (
	"fmt"

	"fortio.org/safecast"

	"irpack/internal/ir"
)

// LoopTable numbers loops in visit order so breaks and continues can name
// their loop. Identities start at 1.
type LoopTable struct {
	ids   map[ir.LoopExpression]int32
	loops map[int32]ir.LoopExpression
}

// NewLoopTable creates an empty table.
func NewLoopTable() *LoopTable {
	return &LoopTable{
		ids:   make(map[ir.LoopExpression]int32),
		loops: make(map[int32]ir.LoopExpression),
	}
}

// Enter assigns the next identity to l. Called at the loop header before
// the condition and body are visited.
func (t *LoopTable) Enter(l ir.LoopExpression) int32 {
	if id, ok := t.ids[l]; ok {
		return id
	}
	id, err := safecast.Conv[int32](len(t.ids) + 1)
	if err != nil {
		panic(fmt.Errorf("loop table overflow: %w", err))
	}
	t.ids[l] = id
	t.loops[id] = l
	return id
}

// IDOf returns the identity of an entered loop.
func (t *LoopTable) IDOf(l ir.LoopExpression) (int32, bool) {
	id, ok := t.ids[l]
	return id, ok
}

// Register binds a decoded identity to its reconstructed loop.
func (t *LoopTable) Register(id int32, l ir.LoopExpression) error {
	if id <= 0 {
		return fmt.Errorf("loop identity %d out of range", id)
	}
	if _, ok := t.loops[id]; ok {
		return fmt.Errorf("loop identity %d defined twice", id)
	}
	t.ids[l] = id
	t.loops[id] = l
	return nil
}

// Lookup returns the loop registered under id.
func (t *LoopTable) Lookup(id int32) (ir.LoopExpression, bool) {
	l, ok := t.loops[id]
	return l, ok
}
