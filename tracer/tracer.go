package tracer

import (
	"errors"
	"time"
)

var (
	ErrAlreadyAttached = errors.New("tracer: already attached to a frame")
	ErrNotAttached     = errors.New("tracer: not attached to a frame")
	ErrInvalidBuffer   = errors.New("tracer: buffer too small for frame dimensions")
	ErrInvalidBlock    = errors.New("tracer: block exceeds frame bounds")
	ErrBusy            = errors.New("tracer: worker is busy; block request dropped")
	ErrClosed          = errors.New("tracer: closed while processing block")
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The number of emitted rays per traced pixel.
	SamplesPerPixel uint32

	// The exposure value controls HDR -> LDR mapping.
	Exposure float32

	// A random seed value for the tracer's random number generator.
	Seed uint32

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracers computation speed estimate compared to a
	// baseline (cpu) implementation.
	SpeedEstimate() float32

	// Attach the tracer to a frame and start processing block requests.
	// The accumulation buffer holds 3 floats per pixel and the frame buffer
	// holds 4 RGBA bytes per pixel.
	Setup(frameW, frameH uint32, accumBuffer []float32, frameBuffer []uint8) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats
}
