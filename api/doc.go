// Package api exposes the simulation service over REST.
//
// Routes:
//
//	POST   /api/sessions                  create a session from a preset
//	GET    /api/sessions                  list sessions (sort/limit query params)
//	GET    /api/sessions/{id}             session details
//	DELETE /api/sessions/{id}             delete a session
//	GET    /api/sessions/{id}/state       full simulation snapshot
//	POST   /api/sessions/{id}/tick        advance one step
//	POST   /api/sessions/{id}/bulk-tick   advance up to N steps
//	POST   /api/sessions/{id}/start-stop  toggle the tick gate
//	POST   /api/sessions/{id}/reset       regenerate terrain, reset rover
//	POST   /api/sessions/{id}/replan      recompute route under an algorithm
//	GET    /api/sessions/{id}/report      aggregate mission report
//	GET    /api/sessions/{id}/telemetry   mission record export
//	GET    /api/presets                   list presets
//	POST   /api/presets                   save a preset
//	GET    /api/algorithms                list planner variants
//	GET    /ws?session={id}               WebSocket state stream
//
// Every state-changing handler broadcasts the fresh snapshot to the
// session's WebSocket viewers.
package api
