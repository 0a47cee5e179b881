// Package session provides in-memory session management for the maze game.
//
// Each session owns one engine and therefore one maze. Sessions are keyed by
// a case-insensitive ID; an empty ID on Create yields a random 4-character
// hex ID. Mazes are never written to disk: a restart starts from scratch.
//
// The Manager is safe for concurrent use. Stale sessions are removed with
// CleanupExpiredSessions, or periodically with RunCleanup:
//
//	manager := session.NewManager(session.WithLogger(log))
//	go manager.RunCleanup(ctx, time.Minute, 2*time.Hour)
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
package session
