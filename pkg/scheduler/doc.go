// Package scheduler batches engine work into microtask-style flushes.
//
// A Scheduler keeps a FIFO queue of named jobs. The first Enqueue after a
// flush posts exactly one flush callback to the Poster; every job enqueued
// before that callback runs, including jobs enqueued by other jobs during the
// flush. A failing or panicking job is logged and reported, and the rest of
// the queue still runs.
//
// The Poster decides when flushes happen:
//
//   - Microtasks is a manual queue. Tests and the demo CLI call Drain to run
//     everything posted so far.
//   - Loop is a single goroutine that runs tasks one at a time and drains its
//     microtasks after each task, the way a browser event loop does.
//
// All engine work for a live app is expected to run on one goroutine. Loop.Do
// is how other goroutines (HTTP handlers, timers) reach it.
package scheduler
