package game

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Generator configures the restricted enumerator used for deep search.
type Generator struct {
	// SplitThreshold is the most groups a faction may hold and still be offered a split.
	SplitThreshold int
	// PruneDirections drops directions with no human or enemy cell ahead of the group.
	// It only orders and trims the search; it is not a legality rule.
	PruneDirections bool
}

var DefaultGenerator = Generator{SplitThreshold: 3}

// slot is one (group, neighbor) pair the exhaustive enumerator decides a unit count for.
type slot struct {
	group    int // Position in the acting faction's index set
	from, to int // Cell indices
}

type frame struct {
	slot    int
	options []int
	next    int
}

// AllMoveSets enumerates every legal move-set for the faction to act. A group
// either moves whole or, when minGroupSize > 0, splits into parts of at least
// minGroupSize units, leaving behind nothing or at least minGroupSize units.
// When maxGroups > 0 move-sets that would leave the faction with more groups
// than that are skipped. Move-sets are returned in canonical order.
func (b *Board) AllMoveSets(minGroupSize, maxGroups int) []MoveSet {
	own := b.groups[b.player]
	slots := make([]slot, 0, len(own)*len(directions))
	for gi, i := range own {
		for _, n := range b.Neighbors(b.coord(i)) {
			slots = append(slots, slot{group: gi, from: i, to: b.index(n)})
		}
	}
	if len(slots) == 0 {
		return nil
	}

	size := make([]int, len(own))
	remaining := make([]int, len(own))
	for gi, i := range own {
		size[gi] = b.cells[i][b.player]
		remaining[gi] = size[gi]
	}
	sources := make([]int, len(b.cells)) // Moves leaving each cell
	destinations := make([]bool, len(b.cells))

	options := func(s slot) []int {
		if destinations[s.from] || destinations[s.to] || sources[s.to] > 0 {
			return []int{0}
		}
		var opts []int
		g, r := size[s.group], remaining[s.group]
		if r == g {
			opts = append(opts, g)
		}
		if minGroupSize > 0 {
			for u := minGroupSize; u <= r; u++ {
				if rest := r - u; u != g && (rest == 0 || rest >= minGroupSize) {
					opts = append(opts, u)
				}
			}
		}
		return append(opts, 0)
	}

	var (
		result []MoveSet
		work   MoveSet
	)
	apply := func(s slot, u int) {
		work = append(work, Move{From: b.coord(s.from), Units: u, To: b.coord(s.to)})
		remaining[s.group] -= u
		sources[s.from]++
		destinations[s.to] = true
	}
	undo := func(s slot, u int) {
		work = work[:len(work)-1]
		remaining[s.group] += u
		sources[s.from]--
		destinations[s.to] = false
	}
	groupsAfter := func() int {
		count := lo.CountBy(remaining, func(r int) bool { return r > 0 })
		return count + lo.CountBy(work, func(m Move) bool { return b.At(m.To)[b.player] == 0 })
	}

	stack := []frame{{slot: 0, options: options(slots[0])}}
	for len(stack) > 0 {
		top := len(stack) - 1
		f := &stack[top]
		if f.slot == len(slots) {
			if len(work) > 0 && (maxGroups <= 0 || groupsAfter() <= maxGroups) {
				result = append(result, slices.Clone(work))
			}
			stack = stack[:top]
			continue
		}
		if f.next > 0 && f.options[f.next-1] > 0 {
			undo(slots[f.slot], f.options[f.next-1])
		}
		if f.next == len(f.options) {
			stack = stack[:top]
			continue
		}
		u := f.options[f.next]
		f.next++
		if u > 0 {
			apply(slots[f.slot], u)
		}

		next := frame{slot: f.slot + 1}
		if next.slot < len(slots) {
			next.options = options(slots[next.slot])
		}
		stack = append(stack, next)
	}
	return result
}

// NextMoves enumerates move-sets where every group stays or moves whole to a
// neighbor. With allowOneSplit, and while the faction holds at most
// SplitThreshold groups, one group may instead split in halves towards two
// different neighbors.
func (b *Board) NextMoves(allowOneSplit bool) []MoveSet {
	return DefaultGenerator.NextMoves(b, allowOneSplit)
}

func (g Generator) NextMoves(b *Board, allowOneSplit bool) []MoveSet {
	own := b.GroupsOf(b.player)
	canSplit := allowOneSplit && len(own) <= g.SplitThreshold

	whole := make([][]MoveSet, len(own))
	splits := make([][]MoveSet, len(own))
	for gi, c := range own {
		units := b.At(c)[b.player]
		dests := g.directionsFrom(b, c)
		for _, d := range dests {
			whole[gi] = append(whole[gi], MoveSet{{From: c, Units: units, To: d}})
		}
		if !canSplit || units < 2 {
			continue
		}
		for i := range dests {
			for j := i + 1; j < len(dests); j++ {
				splits[gi] = append(splits[gi], MoveSet{
					{From: c, Units: units / 2, To: dests[i]},
					{From: c, Units: units - units/2, To: dests[j]},
				})
			}
		}
	}

	var (
		result       []MoveSet
		work         MoveSet
		sources      = make(map[Coord]bool)
		destinations = make(map[Coord]bool)
	)
	fits := func(option MoveSet) bool {
		for _, m := range option {
			if destinations[m.To] || sources[m.To] || destinations[m.From] {
				return false
			}
		}
		return true
	}
	push := func(option MoveSet) {
		for _, m := range option {
			sources[m.From] = true
			destinations[m.To] = true
		}
		work = append(work, option...)
	}
	pop := func(option MoveSet) {
		for _, m := range option {
			delete(sources, m.From)
			delete(destinations, m.To)
		}
		work = work[:len(work)-len(option)]
	}

	var combine func(gi int, splitUsed bool)
	combine = func(gi int, splitUsed bool) {
		if gi == len(own) {
			if len(work) > 0 {
				result = append(result, slices.Clone(work))
			}
			return
		}
		combine(gi+1, splitUsed)
		for _, option := range whole[gi] {
			if fits(option) {
				push(option)
				combine(gi+1, splitUsed)
				pop(option)
			}
		}
		if splitUsed {
			return
		}
		for _, option := range splits[gi] {
			if fits(option) {
				push(option)
				combine(gi+1, true)
				pop(option)
			}
		}
	}
	combine(0, false)
	return result
}

func (g Generator) directionsFrom(b *Board, c Coord) []Coord {
	neighbors := b.Neighbors(c)
	if !g.PruneDirections {
		return neighbors
	}
	kept := lo.Filter(neighbors, func(n Coord, _ int) bool { return b.targetAhead(c, n) })
	if len(kept) == 0 {
		return neighbors
	}
	return kept
}

// targetAhead reports whether a human or enemy cell lies strictly ahead of c in
// the half-plane pointed to by the step from c to n.
func (b *Board) targetAhead(c, n Coord) bool {
	dx, dy := n.X-c.X, n.Y-c.Y
	for _, p := range []Population{Humans, b.player.Opponent()} {
		for _, i := range b.groups[p] {
			t := b.coord(i)
			if dx*(t.X-c.X)+dy*(t.Y-c.Y) > 0 {
				return true
			}
		}
	}
	return false
}
