// Package live keeps the current route table in memory and replaces it
// when its source changes.
//
// A Holder owns an immutable Snapshot behind an atomic pointer. Readers
// call Current or Resolve without locking; Reload fetches the source,
// validates and compiles the table, and swaps the snapshot only when the
// table actually changed. A failed reload leaves the previous snapshot in
// place.
//
// Watchers drive reloads: FileWatcher reacts to file system events on
// local files, PollWatcher re-fetches any source on an interval. Hub
// pushes reload notifications to WebSocket clients.
//
//	h := live.NewHolder(live.Config{Source: src})
//	if _, err := h.Reload(ctx); err != nil {
//	    return err
//	}
//	hub := live.NewHub(logger)
//	h.Subscribe(hub.Notify)
//	go h.Watcher(250*time.Millisecond, 30*time.Second).Run(ctx)
package live
