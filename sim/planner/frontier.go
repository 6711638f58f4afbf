package planner

import (
	"container/heap"

	"github.com/roversim/mars-rover-sim/sim/terrain"
)

// frontierEntry is one pending coordinate in the search frontier.
// seq breaks priority ties in insertion order so a fixed input always
// expands nodes in the same order.
type frontierEntry struct {
	coord    terrain.Coordinate
	priority float64
	seq      int
}

type frontier struct {
	entries []frontierEntry
	nextSeq int
}

func newFrontier() *frontier {
	f := &frontier{}
	heap.Init(f)
	return f
}

func (f *frontier) push(c terrain.Coordinate, priority float64) {
	heap.Push(f, frontierEntry{coord: c, priority: priority, seq: f.nextSeq})
	f.nextSeq++
}

func (f *frontier) pop() terrain.Coordinate {
	return heap.Pop(f).(frontierEntry).coord
}

func (f *frontier) empty() bool {
	return len(f.entries) == 0
}

// heap.Interface

func (f *frontier) Len() int { return len(f.entries) }

func (f *frontier) Less(i, j int) bool {
	if f.entries[i].priority != f.entries[j].priority {
		return f.entries[i].priority < f.entries[j].priority
	}
	return f.entries[i].seq < f.entries[j].seq
}

func (f *frontier) Swap(i, j int) {
	f.entries[i], f.entries[j] = f.entries[j], f.entries[i]
}

func (f *frontier) Push(x any) {
	f.entries = append(f.entries, x.(frontierEntry))
}

func (f *frontier) Pop() any {
	old := f.entries
	n := len(old)
	entry := old[n-1]
	f.entries = old[:n-1]
	return entry
}
