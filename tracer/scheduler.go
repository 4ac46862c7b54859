package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers using feedback collected from previous frames.
	//
	// This function returns the block height assignment for each tracer
	// in the input list. Assignments always add up to frameH and each
	// tracer receives at least one row as long as frameH >= len(tracers).
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

type naiveScheduler struct{}

// Create a scheduler that splits the frame rows according to each tracer's
// speed estimate.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	return speedAssignment(tracers, frameH)
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool
// of tracers using feedback collected from previous frames.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	if len(tracers) == 0 {
		return nil
	}

	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = speedAssignment(tracers, frameH)
		return sch.blockAssignment
	}

	// Use last frame statistics
	var total float64
	rates := make([]float64, len(tracers))
	for idx, tr := range tracers {
		stats := tr.Stats()
		blockTime := float64(stats.RenderTime)
		if blockTime <= 0 {
			blockTime = 1
		}
		rates[idx] = float64(stats.BlockH) / blockTime
		total += rates[idx]
	}

	// No usable feedback; fall back to speed estimates
	if total == 0 {
		sch.blockAssignment = speedAssignment(tracers, frameH)
		return sch.blockAssignment
	}

	scaler := float64(frameH) / total
	for idx := range tracers {
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(rates[idx]*scaler)))
	}

	balanceRows(sch.blockAssignment, frameH)
	return sch.blockAssignment
}

// Distribute rows proportionally to each tracer's speed estimate.
func speedAssignment(tracers []Tracer, frameH uint32) []uint32 {
	if len(tracers) == 0 {
		return nil
	}

	var total float64
	for _, tr := range tracers {
		total += float64(tr.SpeedEstimate())
	}

	assignment := make([]uint32, len(tracers))
	if total <= 0 {
		// Treat all tracers as equally fast
		for idx := range assignment {
			assignment[idx] = frameH / uint32(len(tracers))
		}
	} else {
		scaler := float64(frameH) / total
		for idx, tr := range tracers {
			assignment[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.SpeedEstimate())*scaler)))
		}
	}

	balanceRows(assignment, frameH)
	return assignment
}

// Adjust the assignment so that it adds up to frameH. Excess rows are taken
// from the largest blocks without dropping any block below one row; missing
// rows are appended to the first tracer.
func balanceRows(assignment []uint32, frameH uint32) {
	var scheduledRows uint32
	for _, rows := range assignment {
		scheduledRows += rows
	}

	for scheduledRows > frameH {
		largest := 0
		for idx, rows := range assignment {
			if rows > assignment[largest] {
				largest = idx
			}
		}
		if assignment[largest] <= 1 {
			break
		}
		assignment[largest]--
		scheduledRows--
	}

	// In case rows don't add up to the frame height append the missing ones to the first tracer
	if scheduledRows < frameH {
		assignment[0] += frameH - scheduledRows
	}
}
