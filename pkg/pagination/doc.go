// Package pagination implements page-by-page accumulation of image search
// results driven by an external advance trigger.
//
// A session fetches page 1 immediately, fetches page N+1 for each trigger
// emission, and emits the running accumulation after every page. The session
// completes when the server returns a short page (fewer items than the
// requested page size) or when the accumulated count reaches the total the
// server reports, whichever is observed first.
//
// Example usage:
//
//	acc := pagination.New(client, pagination.DefaultConfig())
//	trigger := make(chan struct{}, 1)
//	for snap := range acc.Search(ctx, "fruits", trigger) {
//		if snap.Err != nil {
//			return snap.Err
//		}
//		render(snap.Response)
//		trigger <- struct{}{} // request the next page
//	}
//
// The accumulator:
//   - Owns all session state in one goroutine (no locks needed)
//   - Validates each response shape before appending
//   - Never mutates a previously emitted accumulation
//   - Makes exactly one fetch per accepted trigger
//   - Performs no retries (the transport layer owns retry policy)
package pagination
