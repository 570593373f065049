// Package relax is the application shell of the relax UI engine.
//
// An App mounts one root component into a host container and tears it down
// again:
//
//	app := relax.New(todo.List, vdom.Props{"title": "Groceries"}, relax.Config{
//	    Logger: slog.Default(),
//	})
//	if err := app.Mount(container); err != nil {
//	    return err
//	}
//	defer app.Unmount()
//
// Mount builds and attaches the whole initial tree before it returns. Unless
// Config.Scheduler is set, lifecycle hooks queued while mounting or
// unmounting run before Mount and Unmount return, and Flush runs hooks
// queued by later updates.
//
// Lower layers live in their own packages: pkg/vdom builds virtual trees,
// pkg/runtime mounts and patches them, pkg/scheduler defers lifecycle hooks
// and pkg/host describes the presentation tree being driven.
package relax
