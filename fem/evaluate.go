package fem

// cellBatch is one unit of work for the batched evaluator: a cell and the
// request indices of all points owned by it.
type cellBatch struct {
	cell   int
	points []int
}

// batchByCell groups evaluation requests by owning cell so per-cell work
// (geometry and coefficient gathers) happens once per cell rather than
// once per point. Requests with a negative cell index are dropped.
func batchByCell(cells []int) (batches []cellBatch) {
	var (
		seen = make(map[int]int)
	)
	for i, k := range cells {
		if k < 0 {
			continue
		}
		bi, ok := seen[k]
		if !ok {
			bi = len(batches)
			batches = append(batches, cellBatch{cell: k})
			seen[k] = bi
		}
		batches[bi].points = append(batches[bi].points, i)
	}
	return
}
