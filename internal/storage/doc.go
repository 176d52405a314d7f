// Package storage owns the durable side of the campaign manager: the
// in-memory document graph that is the sole source of truth, the debounced
// save scheduler that coalesces mutations into at-most-one in-flight disk
// write, and the atomic-replace file I/O underneath it.
//
// The graph lives in one JSON document per data file. Mutations happen in
// memory first and are authoritative immediately; persistence trails behind
// by at most the debounce window. A crash loses only the mutations since
// the last completed atomic write.
package storage
