// Package resource bounds the resources used while loading a corpus and
// building its index.
//
//   - Workers: how many index batches run concurrently (weighted semaphore)
//   - Memory: estimated bytes held by batches that are built but not yet merged
//   - IO: token-bucket throttling of corpus reads from a blob store
//
// # Memory
//
// AcquireMemory blocks until the reservation fits. Reservations larger than
// the limit are clamped to the limit so that a single oversized batch can
// still make progress on its own:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	    MaxWorkers:       4,
//	})
//
//	n, err := rc.AcquireMemory(ctx, estimate)
//	if err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(n)
//
// # IO Rate Limiting
//
//	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 8 << 20})
//	r := resource.NewRateLimitedReader(ctx, blobReader, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
