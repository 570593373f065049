// Package inspect serves a live view of an in-memory host tree over HTTP.
//
// The inspector exposes the rendered HTML, a pretty-printed tree with node
// ids, the mutation log, an endpoint that dispatches synthetic events to an
// element, a websocket stream of mutations as they happen and, when a
// metrics recorder is configured, Prometheus metrics.
//
// The host tree is not safe for concurrent use, so every handler that reads
// or changes it runs on the scheduler.Loop that owns the tree.
//
//	srv, err := inspect.New(inspect.Config{
//	    Document:  doc,
//	    Container: root,
//	    Loop:      loop,
//	    Metrics:   rec,
//	})
//	if err != nil {
//	    return err
//	}
//	defer srv.Close()
//	return srv.ListenAndServe(ctx, "localhost:7070")
//
// Routes:
//
//	GET  /                              HTML page that follows the stream
//	GET  /snapshot                      rendered HTML of the container
//	GET  /tree                          indented HTML with data-relax-id
//	GET  /mutations                     JSON mutation log
//	POST /nodes/{id}/events/{event}     dispatch an event, JSON body as payload
//	GET  /ws                            websocket mutation stream
//	GET  /metrics                       Prometheus exposition
//	GET  /healthz                       liveness
package inspect
