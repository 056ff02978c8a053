package compute

// SerialBackend runs every kernel on the calling goroutine. Useful for
// deterministic debugging and for profiling kernel bodies in isolation.
type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) Dispatch(n int, kernel Kernel) {
	if n <= 0 {
		return
	}
	kernel(0, n)
}
