// Package memory provides in-process implementations of the store
// interfaces. Documents are kept as encoded JSON and decoded on every read,
// so results never alias stored state. It backs the memory database driver
// and the tests of the layers above the store.
package memory
