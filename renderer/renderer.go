package renderer

import (
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/chg95211/Ray-Tracing-Core/log"
	"github.com/chg95211/Ray-Tracing-Core/scene"
	"github.com/chg95211/Ray-Tracing-Core/tracer"
)

type Renderer interface {
	// Render frame.
	Render() (*image.RGBA, error)

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

type defaultRenderer struct {
	logger log.Logger

	sc        *scene.Scene
	scheduler tracer.BlockScheduler
	opts      Options

	tracers []tracer.Tracer

	// Buffers shared by all tracers. Each tracer writes a disjoint set of rows.
	accumBuffer []float32
	frame       *image.RGBA

	// Tracers report block completion and errors on these channels.
	doneChan chan uint32
	errChan  chan error

	stats FrameStats
}

// Create a renderer that splits each frame between a pool of CPU tracers.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameSize
	}
	if opts.NumTracers < 0 {
		return nil, ErrNoTracers
	}
	if !sc.IsBuilt() {
		if err := sc.Build(); err != nil {
			return nil, err
		}
	}
	if scheduler == nil {
		scheduler = tracer.NaiveScheduler()
	}

	numTracers := opts.NumTracers
	if numTracers == 0 {
		numTracers = runtime.NumCPU()
	}
	// Every tracer needs at least one row to work on.
	if numTracers > int(opts.FrameH) {
		numTracers = int(opts.FrameH)
	}
	if opts.SamplesPerPixel == 0 {
		opts.SamplesPerPixel = 1
	}

	r := &defaultRenderer{
		logger:      log.New("renderer"),
		sc:          sc,
		scheduler:   scheduler,
		opts:        opts,
		accumBuffer: make([]float32, 3*int(opts.FrameW)*int(opts.FrameH)),
		frame:       image.NewRGBA(image.Rect(0, 0, int(opts.FrameW), int(opts.FrameH))),
		doneChan:    make(chan uint32, numTracers),
		errChan:     make(chan error, numTracers),
		stats: FrameStats{
			Tracers: make([]TracerStat, numTracers),
		},
	}

	for idx := 0; idx < numTracers; idx++ {
		tr := tracer.NewCPUTracer(fmt.Sprintf("cpu-%d", idx), sc)
		if err := tr.Setup(opts.FrameW, opts.FrameH, r.accumBuffer, r.frame.Pix); err != nil {
			tr.Close()
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, tr)
	}

	r.logger.Infof("attached %d tracers to %dx%d frame", numTracers, opts.FrameW, opts.FrameH)
	return r, nil
}

// Render frame.
func (r *defaultRenderer) Render() (*image.RGBA, error) {
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	start := time.Now()
	blockAssignment := r.scheduler.Schedule(r.tracers, r.opts.FrameH)

	var blockY uint32
	pending := 0
	for idx, tr := range r.tracers {
		blockH := blockAssignment[idx]
		r.stats.Tracers[idx] = TracerStat{
			Id:           tr.Id(),
			BlockH:       blockH,
			FramePercent: 100.0 * float32(blockH) / float32(r.opts.FrameH),
		}
		if blockH == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			BlockY:          blockY,
			BlockH:          blockH,
			SamplesPerPixel: r.opts.SamplesPerPixel,
			Exposure:        r.opts.Exposure,
			Seed:            r.opts.Seed,
			DoneChan:        r.doneChan,
			ErrChan:         r.errChan,
		})
		blockY += blockH
		pending++
	}

	// Wait for every tracer to reply so no stale replies leak into the next frame
	var err error
	for ; pending > 0; pending-- {
		select {
		case <-r.doneChan:
		case tracerErr := <-r.errChan:
			if err == nil {
				err = tracerErr
			}
		}
	}

	if err != nil {
		r.logger.Errorf("frame render failed: %s", err)
		if err == tracer.ErrClosed || err == tracer.ErrNotAttached {
			return nil, ErrInterrupted
		}
		return nil, err
	}

	for idx, tr := range r.tracers {
		if r.stats.Tracers[idx].BlockH > 0 {
			r.stats.Tracers[idx].RenderTime = tr.Stats().RenderTime
		}
	}
	r.stats.RenderTime = time.Since(start)
	r.logger.Infof("rendered %dx%d frame at %d spp in %s", r.opts.FrameW, r.opts.FrameH, r.opts.SamplesPerPixel, r.stats.RenderTime)

	return r.frame, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}
