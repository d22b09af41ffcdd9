package simos

import "github.com/ja7ad/simos/pkg/system/util"

// LoadConfig holds the coefficients for the load estimator. It mirrors the
// shape of a dynamic-power model — a floor, a ceiling, and a nonlinearity
// exponent applied to a combined utilization figure — adapted here to a
// dimensionless "load score" instead of Watts.
type LoadConfig struct {
	Idle  float64 // score at zero pressure
	Max   float64 // score at full pressure across all three subsystems
	Gamma float64 // nonlinearity exponent applied to combined utilization

	ReadyWeight float64 // weight given to ready-queue depth
	DiskWeight  float64 // weight given to disk occupancy
	MemWeight   float64 // weight given to frame occupancy

	// ReadyCapacity normalizes ready-queue depth to [0,1]; a queue at or
	// beyond this depth is treated as full pressure.
	ReadyCapacity int

	// EMAAlpha smooths the combined utilization signal before it's raised
	// to Gamma. 0 disables smoothing.
	EMAAlpha float64
}

// DefaultLoadConfig returns reasonable default coefficients, in the same
// spirit as the teacher's own "these are the same values you used in your
// shell experiments" defaults.
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		Idle:          0,
		Max:           100,
		Gamma:         1.3,
		ReadyWeight:   0.5,
		DiskWeight:    0.3,
		MemWeight:     0.2,
		ReadyCapacity: 8,
		EMAAlpha:      0,
	}
}

// LoadSample is one snapshot of subsystem pressure, taken right after an
// event is processed.
type LoadSample struct {
	ReadyDepth  int
	DisksBusy   int
	DisksTotal  int
	FramesUsed  int
	FramesTotal int
}

// LoadResult is the score produced by one apply call.
type LoadResult struct {
	ReadyPressure float64
	DiskPressure  float64
	MemPressure   float64
	Score         float64
}

// loadEstimator derives a dimensionless system-load score from ready-queue
// depth, disk occupancy, and memory pressure. It is purely observational:
// nothing it computes feeds back into scheduling, admission, or
// replacement decisions — see SPEC_FULL.md §2.
type loadEstimator struct {
	cfg LoadConfig
	ema *util.EMA

	count    int
	sumScore float64
}

func newLoadEstimator(cfg LoadConfig) *loadEstimator {
	e := &loadEstimator{cfg: cfg}
	if cfg.EMAAlpha > 0 {
		e.ema = util.NewEMA(cfg.EMAAlpha)
	}
	return e
}

// apply folds one sample into the estimator and returns the instantaneous
// breakdown.
func (e *loadEstimator) apply(s LoadSample) LoadResult {
	readyCap := e.cfg.ReadyCapacity
	if readyCap <= 0 {
		readyCap = 1
	}
	readyPressure := util.Clamp01(float64(s.ReadyDepth) / float64(readyCap))
	diskPressure := util.Clamp01(util.SafeDiv(float64(s.DisksBusy), float64(s.DisksTotal)))
	memPressure := util.Clamp01(util.SafeDiv(float64(s.FramesUsed), float64(s.FramesTotal)))

	combined := e.cfg.ReadyWeight*readyPressure + e.cfg.DiskWeight*diskPressure + e.cfg.MemWeight*memPressure
	combined = util.Clamp01(combined)
	if e.ema != nil {
		combined = e.ema.Next(combined)
	}

	score := e.cfg.Idle + (e.cfg.Max-e.cfg.Idle)*util.Pow(combined, e.cfg.Gamma)

	e.count++
	e.sumScore += score

	return LoadResult{
		ReadyPressure: readyPressure,
		DiskPressure:  diskPressure,
		MemPressure:   memPressure,
		Score:         score,
	}
}

// average returns the mean score over every sample applied so far.
func (e *loadEstimator) average() float64 {
	if e.count == 0 {
		return 0
	}
	return e.sumScore / float64(e.count)
}
