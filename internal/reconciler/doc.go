// Package reconciler keeps the store in step with a directory of Bacula
// resource files.
//
// # Layout
//
// The watched directory holds one sub-directory per entity kind:
//
//	<dir>/directors/*.conf
//	<dir>/catalogs/*.conf
//	<dir>/clients/*.conf
//	<dir>/storages/*.conf
//	<dir>/messages/*.conf
//
// Each file holds the body of a single resource, the same text accepted by
// `bactool import --kind`.
//
// # Events
//
// A Watcher uses fsnotify and debounces bursts of writes to the same file
// into one ChangeEvent. Events are delivered to the Handler one at a time
// from the goroutine that called Run, so handlers never overlap.
package reconciler
