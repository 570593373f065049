// Package arraydiff computes edit sequences between ordered sequences.
//
// Sequence walks the new sequence left to right against a working copy of
// the old one and emits Add, Remove, Move and Noop operations. Replaying the
// operations in order against the old sequence (see Apply) reproduces the new
// sequence exactly. Each Move and Noop carries the element's index in the
// original old sequence so callers can pair old and new items for recursive
// patching.
//
// Diff is the position-insensitive multiset difference, and KeysDiff is the
// added/removed/updated classification of two mappings.
package arraydiff
