// Package rover implements the mobile agent's state machine.
//
// A rover is Idle until assigned a plan, then advances one grid cell
// per Step call, paying the terrain's energy cost for each cell it
// enters. Three terminal states end a mission: ReachedGoal when the
// plan is exhausted, OutOfEnergy when the next step costs more than the
// remaining budget, and Stuck when the next planned cell turned out to
// be impassable on the live grid. Step is a strict no-op in every
// terminal state; Reset restores the initial budget from any state.
package rover
