// Package planner computes minimum-cost routes over a terrain view.
//
// The three selectable algorithms - A*, Dijkstra, and the
// energy-efficient A* variant - are one parameterized weighted
// best-first search, not independent implementations. They share the
// frontier, the cost-so-far map, and the predecessor map; the Variant
// only changes the per-step cost and the frontier priority:
//
//	A*               step = base * cost(n)    f = g + euclid(n, goal)
//	Dijkstra         step = base * cost(n)    f = g
//	EnergyEfficient  step = base * cost(n)^2  f = g + euclid(n, goal) * cost(n)
//
// Movement is 8-connected; diagonal steps carry a sqrt(2) base cost.
// "No path exists" is a first-class result (nil plan, nil error), never
// an error.
package planner
