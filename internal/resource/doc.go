// Package resource governs the shared resources of a lexgo process.
//
//   - Workers: a weighted semaphore bounding how many segments are searched
//     concurrently across all in-flight queries.
//   - IO: a token bucket throttling object-store uploads and downloads so
//     remote directories cannot starve foreground reads.
//
// Usage:
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers:         runtime.GOMAXPROCS(0),
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
//	r := resource.NewRateLimitedReader(ctx, body, rc)
//
// All methods are safe for concurrent use, and a nil *Controller is valid:
// every method becomes a no-op, so limits stay optional.
package resource
