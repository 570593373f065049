// Package errors provides the coded error taxonomy used across relax.
//
// Every contract violation the engine can detect maps to a registered code
// (e.g. "E002") with a category, a short message and a longer explanation.
// Errors carry an optional detail line describing the concrete offence and an
// optional wrapped cause.
//
// # Categories
//
//   - argument: malformed builder or definition input
//   - placement: host-tree placement contract violated
//   - internal: a broken engine invariant (unknown node kind)
//   - lifecycle: mount/unmount misuse, re-entrant updates
//   - event: emitted events nobody listens to
//   - scheduler: deferred lifecycle job failures
//   - config: invalid relax.yaml
//
// # Matching
//
// Two errors match under errors.Is when they share a code, so callers compare
// against the exported sentinels:
//
//	if errors.Is(err, errors.ErrAlreadyMounted) {
//	    // the application handle is already attached
//	}
//
// # Formatting
//
//	err := errors.New(errors.CodeInvalidIndex).WithDetail("index -3")
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E003: Invalid insertion index
//	//
//	//   index -3
//	//
//	//   Host insertion indices must be zero or greater ...
package errors
