// Package demo is a todo application built on relax. The relax command runs
// it against an in-memory host, either from a script of user actions or
// behind the inspector.
//
// It uses the engine's main features together: a keyed list of TodoItem
// components that emit events to their parent, a Card component that shows
// its children through a slot, component methods, and lifecycle hooks.
package demo
