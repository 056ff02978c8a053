// Package compute provides data-parallel dispatch backends for the
// solver's kernel pipeline.
//
// Every simulation kernel is a single dispatch over all N particles;
// there is no cooperative scheduling or cross-particle locking inside
// a kernel. Dispatch joins all workers before returning, which is the
// ordering guarantee the pipeline's fixed kernel sequence relies on:
//
//	backend := compute.GetBackend()
//	backend.Dispatch(n, func(start, end int) {
//	    for i := start; i < end; i++ {
//	        // per-particle work
//	    }
//	})
//
// The CPU backend chunks the range over one worker per core. A device
// backend can be slotted in through [SetBackend]; kernel bodies are Go
// closures, so such a backend has to ship its own kernel programs
// rather than reuse these.
package compute
