// Package persistence provides tag-set persistence for the hub.
//
// Tags are the only state at this layer that must survive a hub
// restart; topology is rebuilt by adapters as hardware is rediscovered.
// The hub saves a snapshot of every entity's tags after each tag
// mutation and re-applies saved tags to entities as adapters add them
// back.
package persistence
