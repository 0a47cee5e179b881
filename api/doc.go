// Package api exposes the maze game over REST.
//
// All routes live under /api and speak JSON, except the render endpoint
// which returns the ASCII maze as text/plain:
//
//	POST   /api/sessions                    create ({"config_id": "classic"})
//	GET    /api/sessions                    list (?sort=created|accessed&order=asc|desc&limit=N)
//	GET    /api/sessions/{id}               session info
//	DELETE /api/sessions/{id}               delete
//	GET    /api/sessions/{id}/state         game state
//	GET    /api/sessions/{id}/render        ASCII maze
//	POST   /api/sessions/{id}/move          {"direction": "up", "reset": false}
//	POST   /api/sessions/{id}/bulk-move     {"moves": ["right", "down"]}
//	POST   /api/sessions/{id}/reset         restart the same maze
//	POST   /api/sessions/{id}/new-game      {"size": 15}, 0 keeps the size
//	GET    /api/sessions/{id}/history       ?page=&limit=&order=
//	GET    /api/sessions/{id}/path          ?from=r,c&to=r,c
//	GET    /api/sessions/{id}/hint          next cell toward the goal
//	POST   /api/sessions/{id}/overlay       {"show_path": true, "show_hint": false}
//	GET    /api/configs                     list presets
//	POST   /api/configs                     save a preset
//	GET    /api/configs/{name}              load a preset
//	GET    /api/scores                      ?size=N&limit=K
//	GET    /api/health
//
// GET /ws?session=ID upgrades to a WebSocket that receives the session's
// state after every change.
//
// Errors are returned as {"error": "..."}: 404 for unknown sessions and
// presets, 400 for bad input such as unsupported sizes or off-grid cells,
// 409 when the game is already over and 503 when high scores are disabled.
package api
