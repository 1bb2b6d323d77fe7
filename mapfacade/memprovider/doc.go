// Package memprovider is an in-memory, deterministic implementation of the mapfacade
// provider boundary.
//
// Every provider call is recorded in a transcript. Asynchronous provider behavior is
// released explicitly by the driver: Load emits the environment ready signal,
// CompleteRoutes delivers queued routing responses and Settle emits a map's idle signal.
// All callbacks run on the caller's goroutine.
package memprovider
