// Package selector implements the predicates used to address nodes and
// channels in bulk.
//
// # Shape
//
// A selector is a plain struct whose fields each constrain one aspect
// of the target: id, owning node, tags, kind, timing capabilities.
// Within one selector the fields combine with AND. Across a selector
// list the hub applies OR: an entity matches the list if it matches at
// least one selector, and an empty list matches nothing.
//
// Tag constraints use all-of containment: an entity matches a tag list
// only if it carries every requested tag. The same policy applies to
// node and channel selectors alike.
//
// A node selector's channel sub-selectors constrain the node's own
// channels: every sub-selector must match at least one of them.
//
// # Refinement
//
// Selectors refine monotonically. The With builders and And only ever
// tighten a selector; combining two selectors that pin the same field
// to different values yields a constraint that matches nothing rather
// than relaxing either side.
package selector
