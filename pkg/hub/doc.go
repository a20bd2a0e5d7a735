// Package hub implements the in-memory hub: the entity graph, the
// selector and tag engine, the value plane, and the watch subsystem
// behind the api.API contract.
//
// # Structure
//
// A Hub owns the node forest and the channel indexes under one
// RWMutex. Adapters register themselves, then attach nodes and
// channels as hardware appears and detach them as it disappears. Tag
// operations resolve their selectors once against the locked graph
// (snapshot semantics); watch subscriptions keep re-evaluating their
// selectors as the graph changes (live semantics).
//
// # Value plane
//
// Bulk reads and writes resolve their targets under the read lock,
// then fan out to the owning adapters outside any lock, one goroutine
// per channel. Each channel reports its own success or failure; a
// value whose type does not match the channel kind is rejected without
// reaching the adapter.
//
// # Watch delivery
//
// Each subscription owns a bounded event queue drained by a single
// goroutine, so its callback sees events in order and never
// concurrently. A full queue drops the newest event and counts the
// loss; a slow subscriber only ever loses its own events. Releasing
// the guard stops delivery before it returns.
package hub
