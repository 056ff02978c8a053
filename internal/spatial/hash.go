// Package spatial provides the rebuilt-every-step hash index the
// solver uses for neighbor queries, and the reorder stage that keeps
// particle buffers coherent with it.
package spatial

import "github.com/go-gl/mathgl/mgl32"

// Cell hashing constants. Three large primes spread neighboring cells
// across the table; collisions are tolerated (a walked run may contain
// strangers, the distance check filters them) but must be rare.
const (
	hashK1 uint32 = 15823
	hashK2 uint32 = 9737333
	hashK3 uint32 = 440817757
)

// Hash maps 3D grid cells to contiguous runs of particle indices in
// sorted order. It is rebuilt from scratch every sub-step; predicted
// positions move, so nothing is reusable across rebuilds.
type Hash struct {
	cellSize  float32
	tableSize uint32 // power of two
	mask      uint32

	keys   []uint32 // build-order cell key per particle
	sorted []uint32 // permutation: sorted slot -> build-order index
	starts []uint32 // exclusive prefix, len tableSize+1
	cursor []uint32 // scatter cursors, reused per build
}

// NewHash sizes the index for n particles with the given cell size,
// which the solver keeps equal to the smoothing radius.
func NewHash(n int, cellSize float32) *Hash {
	tableSize := uint32(1)
	for tableSize < uint32(2*n) {
		tableSize <<= 1
	}
	return &Hash{
		cellSize:  cellSize,
		tableSize: tableSize,
		mask:      tableSize - 1,
		keys:      make([]uint32, n),
		sorted:    make([]uint32, n),
		starts:    make([]uint32, tableSize+1),
		cursor:    make([]uint32, tableSize),
	}
}

// SetCellSize updates the grid resolution for subsequent builds.
func (h *Hash) SetCellSize(cellSize float32) { h.cellSize = cellSize }

// CellCoord returns the integer grid cell containing p.
func (h *Hash) CellCoord(p mgl32.Vec3) (int32, int32, int32) {
	return floorDiv(p.X(), h.cellSize), floorDiv(p.Y(), h.cellSize), floorDiv(p.Z(), h.cellSize)
}

func floorDiv(v, cell float32) int32 {
	q := v / cell
	i := int32(q)
	if q < 0 && float32(i) != q {
		i--
	}
	return i
}

func (h *Hash) keyFor(x, y, z int32) uint32 {
	hash := uint32(x)*hashK1 + uint32(y)*hashK2 + uint32(z)*hashK3
	return hash & h.mask
}

// Build recomputes keys and counting-sorts particle indices by key.
// The sort is stable in build order, though callers must not rely on
// the tie-break; only the per-cell contiguity is contractual.
func (h *Hash) Build(positions []mgl32.Vec3) {
	for i, p := range positions {
		cx, cy, cz := h.CellCoord(p)
		h.keys[i] = h.keyFor(cx, cy, cz)
	}

	// Counting sort: histogram, exclusive prefix, stable scatter.
	for i := range h.cursor {
		h.cursor[i] = 0
	}
	for _, k := range h.keys {
		h.cursor[k]++
	}
	h.starts[0] = 0
	for i := uint32(0); i < h.tableSize; i++ {
		h.starts[i+1] = h.starts[i] + h.cursor[i]
	}
	copy(h.cursor, h.starts[:h.tableSize])
	for i, k := range h.keys {
		h.sorted[h.cursor[k]] = uint32(i)
		h.cursor[k]++
	}
}

// Permutation returns the sort permutation: slot k in sorted order
// holds build-order particle Permutation()[k]. Valid until next Build.
func (h *Hash) Permutation() []uint32 { return h.sorted }

// ForEachRange calls visit with the contiguous sorted-order run of
// every distinct cell key in the 3x3x3 neighborhood of p. Runs may
// contain particles from colliding cells; callers filter by distance.
func (h *Hash) ForEachRange(p mgl32.Vec3, visit func(start, end int)) {
	cx, cy, cz := h.CellCoord(p)

	var seen [27]uint32
	nSeen := 0

	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				key := h.keyFor(cx+dx, cy+dy, cz+dz)

				dup := false
				for s := 0; s < nSeen; s++ {
					if seen[s] == key {
						dup = true
						break
					}
				}
				if dup {
					continue
				}
				seen[nSeen] = key
				nSeen++

				start, end := h.starts[key], h.starts[key+1]
				if start < end {
					visit(int(start), int(end))
				}
			}
		}
	}
}

// Range returns the sorted-order run for the cell containing p alone.
func (h *Hash) Range(p mgl32.Vec3) (int, int) {
	cx, cy, cz := h.CellCoord(p)
	key := h.keyFor(cx, cy, cz)
	return int(h.starts[key]), int(h.starts[key+1])
}
