package core

import "github.com/sarchlab/rvvrollback/instr"

// ScratchPool lists the registers an expansion may borrow, in order of
// preference.
var ScratchPool = []string{"t0", "t1", "t2"}

// scratchSlots are the stack offsets the borrowed registers are saved to.
var scratchSlots = []string{"0(sp)", "8(sp)"}

// unusedScratch returns the pool minus every register that textually appears
// in one of the given operands.
//
// This is not liveness analysis. It cannot see that a register holds a value
// needed by a later line, so the expansion saves and restores the registers
// and the operator is asked to review it.
func unusedScratch(pool []string, uses ...string) []string {
	var free []string

	for _, reg := range pool {
		used := false
		for _, u := range uses {
			if instr.Mentions(u, reg) {
				used = true
				break
			}
		}

		if !used {
			free = append(free, reg)
		}
	}

	return free
}

// pickScratch returns n registers from the pool that none of the operands
// mention.
func pickScratch(pool []string, n int, uses ...string) ([]string, error) {
	free := unusedScratch(pool, uses...)
	if len(free) < n {
		return nil, ErrNoScratchRegister
	}

	return free[:n], nil
}
