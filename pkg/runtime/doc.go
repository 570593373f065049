// Package runtime mounts, patches and destroys virtual trees on a host
// document, and runs the components inside them.
//
// A Renderer owns the host document and the scheduler. Mount builds host
// nodes for a vnode, Destroy tears them down, and Patch brings a mounted tree
// in line with a new one:
//
//	r := runtime.NewRenderer(doc, sched)
//	if err := r.Mount(tree, container, host.End, nil); err != nil {
//	    return err
//	}
//	tree, err = r.Patch(tree, next, container, nil)
//
// Components are defined once with Define and placed in trees with vdom.C.
// A component re-renders and patches synchronously whenever its props or
// state change. Its OnMounted and OnUnmounted hooks never run inline; they are
// queued on the scheduler and run at the next flush.
//
// Nothing in this package is safe for concurrent use. All calls for one tree
// must come from the same goroutine, typically a scheduler.Loop.
package runtime
