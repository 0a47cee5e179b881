// Package websocket pushes live game updates to browser clients.
//
// Clients connect per session and receive a JSON Message after every state
// change of that session: a state_update while playing, solved once the goal
// is reached, and custom events such as new_game. Incoming client frames are
// ignored; moves go through the REST API or MCP tools.
//
// The Hub owns the client set. Run it once with a context and stop it by
// cancelling the context:
//
//	hub := websocket.NewHub(log)
//	go hub.Run(ctx)
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//	hub.BroadcastToSession(sessionID, state)
package websocket
