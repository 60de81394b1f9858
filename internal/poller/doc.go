// Package poller implements the repricing loop.
//
// The poller:
//   - Reprices every active market on a fixed interval
//   - Reprices single markets promptly when a fill marks them dirty
//   - Bounds concurrent pricing with a weighted semaphore
//   - Emits one PricedBatch per market pass to the quote router
package poller
