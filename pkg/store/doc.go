// Package store persists finished calibration runs.
//
// A [Run] bundles the monitors a calibration was run against with its
// results, so layouts and exports can be rebuilt later without repeating the
// interaction. Backends implement [Store]:
//
//   - [FileStore]: one JSON file per run under a directory, sharded by hash
//   - [SQLiteStore]: a single database file (pure Go driver, no cgo)
//   - [RedisStore]: JSON strings plus a sorted-set index by creation time
//   - [MongoStore]: one document per run
//   - [NullStore]: discards everything
//
// [Open] picks a backend by name:
//
//	s, err := store.Open(ctx, store.Options{Backend: "sqlite", Path: "runs.db"})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
// Missing runs wrap [ErrNotFound] and carry the RUN_NOT_FOUND code. Every
// backend reports hits, misses and writes to the observability store hooks.
package store
