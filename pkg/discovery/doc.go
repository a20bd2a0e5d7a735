// Package discovery implements mDNS/DNS-SD discovery for taxonomy hubs.
//
// # Hub Discovery (_taxonomy._tcp)
//
// A running hub advertises one instance of the _taxonomy._tcp service.
// The instance name is the hub's configured name. TXT records carry:
// v (protocol version), id (hub id), nodes, getters, setters (entity
// counts), and optionally desc (free-form description).
//
// Front ends browse the same service type to enumerate reachable hubs
// on the local network. Entries from multiple interfaces are aggregated
// by instance name, so a dual-homed hub shows up once with all of its
// addresses.
//
// The entity counts are advisory: they are refreshed when the
// advertisement is updated, not on every topology change.
package discovery
