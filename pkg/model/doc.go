// Package model implements the entity model of the taxonomy: the static
// shape of everything that can be addressed.
//
// # Hierarchy
//
// The hub manages a forest of nodes, each owning typed service channels:
//
//	Node (living-room-hub)
//	├── Node (thermostat-4) .......... subnode
//	│   ├── Getter ActualTemperature
//	│   └── Setter Thermostat
//	└── Node (door-1)
//	    ├── Getter OpenClosed
//	    └── Setter OpenClosed
//
// A Node is an addressable device or device group. It carries a mutable
// tag set, an immutable id, an optional parent id, owned subnodes and
// owned getter/setter channels. Parent links form a forest; keeping it
// acyclic is the hub's responsibility when attaching nodes.
//
// # Channels
//
// A Channel is a single input (Getter) or output (Setter) data path on a
// node. Its id, owning node and mechanism are fixed at construction;
// only its tag set and update timestamps change afterwards. The owning
// node reference is a plain id, never a cyclic pointer.
//
// # Service kinds
//
// ServiceKind describes what kind of quantity a channel carries (on/off,
// open/closed, current time, temperature, ...). Every kind maps to
// exactly one value.Type through ServiceKind.Type, which is total and
// pure; Extension kinds carry their type explicitly. A channel's kind,
// and therefore its type, never changes for the channel's lifetime.
//
// # Concurrency
//
// This package holds no locks. The hub serializes access to live
// entities and hands out deep copies (Clone) across its API boundary.
package model
