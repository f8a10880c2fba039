// Package imagecache keeps recently decoded item images in memory and decodes
// missing ones off the caller's goroutine.
//
// Cache is a fixed-size LRU keyed by item ID. Losing its contents is only a
// performance cost; every entry can be rebuilt from the image store.
//
// Loader runs the read-and-decode step in the background and hands the result
// back on a channel. Before a decoded image is cached or delivered, the loader
// asks whether the item still exists. If the item was deleted while the decode
// was in flight, the result is discarded and reported as stale.
//
// Forget must be called after an item is deleted. Together with the liveness
// check it guarantees no image of a deleted item remains cached.
package imagecache
