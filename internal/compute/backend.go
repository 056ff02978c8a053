package compute

// Kernel is the body of a data-parallel pass. It processes indices in
// [start, end) and must not write state outside its range.
type Kernel func(start, end int)

// Backend executes kernels over an index range. Dispatch returns only
// after every worker has finished, so a later kernel may assume all
// earlier dispatches' writes are globally visible.
type Backend interface {
	Name() string
	Available() bool
	Dispatch(n int, kernel Kernel)
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend picks the best available backend. The CPU worker
// pool is always available and is the default.
func AutoSelectBackend() Backend {
	return NewCPUBackend()
}
