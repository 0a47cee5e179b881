// Package scoreboard stores completed maze runs and serves high-score lists.
//
// Records are grouped by maze size and ranked by score, highest first, with
// faster runs breaking ties. Two Store implementations are provided:
// FileStore keeps one JSON file per size in a directory, RedisStore keeps a
// sorted set per size in Redis.
//
// Usage:
//
//	store, err := scoreboard.NewFileStore("scores", 50)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rec := scoreboard.NewRecord("a1b2", "classic", 10, 17, 42, 93*time.Second)
//	err = store.Add(ctx, rec)
//	top, err := store.Top(ctx, 10, 5)
package scoreboard
