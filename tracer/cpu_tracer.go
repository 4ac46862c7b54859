package tracer

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/log"
	"github.com/chg95211/Ray-Tracing-Core/scene"
	"github.com/chg95211/Ray-Tracing-Core/types"
	"golang.org/x/time/rate"
)

// Interval between progress messages emitted while rendering a block.
var ProgressInterval = 2 * time.Second

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// The scene to trace. Its accelerator is shared read-only with any
	// other tracer rendering the same scene.
	sc *scene.Scene

	// Frame dims and the buffers shared with the renderer. Each tracer
	// only ever writes the rows of the blocks it is assigned.
	frameW      uint32
	frameH      uint32
	accumBuffer []float32
	frameBuffer []uint8

	// A channel for receiving block requests from the renderer.
	blockReqChan chan BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *Stats

	// Throttles progress log messages.
	progress *rate.Limiter
}

// Create a new tracer that renders sc on the CPU.
func NewCPUTracer(id string, sc *scene.Scene) Tracer {
	return &cpuTracer{
		logger:   log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:       id,
		sc:       sc,
		stats:    &Stats{},
		progress: rate.NewLimiter(rate.Every(ProgressInterval), 1),
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// The CPU tracer is the baseline implementation.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return 1.0
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *Stats {
	return tr.stats
}

// Attach tracer to render target and start processing incoming block requests.
func (tr *cpuTracer) Setup(frameW, frameH uint32, accumBuffer []float32, frameBuffer []uint8) error {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan != nil {
		return ErrAlreadyAttached
	}

	pixels := int(frameW) * int(frameH)
	if len(accumBuffer) < 3*pixels || len(frameBuffer) < 4*pixels {
		return ErrInvalidBuffer
	}

	tr.frameW = frameW
	tr.frameH = frameH
	tr.accumBuffer = accumBuffer
	tr.frameBuffer = frameBuffer
	tr.blockReqChan = make(chan BlockRequest, 1)
	tr.closeChan = make(chan struct{})

	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func(blockReqChan <-chan BlockRequest, closeChan <-chan struct{}) {
		defer tr.wg.Done()
		var blockReq BlockRequest
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-blockReqChan:
				// Render block and reply with our completion status
				err = tr.process(blockReq, closeChan)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}
				blockReq.DoneChan <- blockReq.BlockH
			case <-closeChan:
				return
			}
		}
	}(tr.blockReqChan, tr.closeChan)

	// Wait for worker goroutine to start
	<-readyChan
	tr.logger.Debugf("attached to %dx%d frame", frameW, frameH)
	return nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq BlockRequest) {
	tr.Lock()
	blockReqChan := tr.blockReqChan
	tr.Unlock()

	if blockReqChan == nil {
		blockReq.ErrChan <- ErrNotAttached
		return
	}

	select {
	case blockReqChan <- blockReq:
	default:
		// drop the request if worker is not listening
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- ErrBusy
	}
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		return
	}

	// Signal worker to exit and wait till it exits
	close(tr.closeChan)
	tr.wg.Wait()

	tr.closeChan = nil
	tr.blockReqChan = nil
	tr.accumBuffer = nil
	tr.frameBuffer = nil
}

// Render the rows of a block into the shared buffers.
func (tr *cpuTracer) process(blockReq BlockRequest, closeChan <-chan struct{}) error {
	if blockReq.BlockH == 0 || blockReq.BlockY+blockReq.BlockH > tr.frameH {
		return ErrInvalidBlock
	}

	start := time.Now()
	spp := blockReq.SamplesPerPixel
	if spp == 0 {
		spp = 1
	}
	invSpp := 1.0 / float32(spp)
	invW := 1.0 / float32(tr.frameW)
	invH := 1.0 / float32(tr.frameH)
	aspect := float32(tr.frameW) * invH
	camera := tr.sc.Camera

	rng := rand.New(rand.NewSource(1))
	lastRow := blockReq.BlockY + blockReq.BlockH
	for y := blockReq.BlockY; y < lastRow; y++ {
		select {
		case <-closeChan:
			return ErrClosed
		default:
		}

		// Seed each row independently so the output does not depend on
		// how the frame is split into blocks.
		rng.Seed(rowSeed(blockReq.Seed, y))

		for x := uint32(0); x < tr.frameW; x++ {
			var color types.Vec3
			for s := uint32(0); s < spp; s++ {
				u := (float32(x) + rng.Float32()) * invW
				v := (float32(y) + rng.Float32()) * invH
				ray := camera.GenerateRay(u, v, aspect)
				color = color.Add(tr.radiance(&ray))
			}
			color = color.Mul(invSpp)

			pixel := int(y)*int(tr.frameW) + int(x)
			copy(tr.accumBuffer[3*pixel:3*pixel+3], color[:])
			out := tr.frameBuffer[4*pixel : 4*pixel+4]
			out[0] = ToneMap(color[0], blockReq.Exposure)
			out[1] = ToneMap(color[1], blockReq.Exposure)
			out[2] = ToneMap(color[2], blockReq.Exposure)
			out[3] = 255
		}

		if tr.progress.Allow() {
			tr.logger.Infof("block [%d, %d): rendered %d/%d rows", blockReq.BlockY, lastRow, y-blockReq.BlockY+1, blockReq.BlockH)
		}
	}

	tr.stats.BlockH = blockReq.BlockH
	tr.stats.RenderTime = time.Since(start)
	tr.logger.Debugf("rendered block [%d, %d) at %d spp in %s", blockReq.BlockY, lastRow, spp, tr.stats.RenderTime)
	return nil
}

// Direct lighting estimate along a primary ray.
func (tr *cpuTracer) radiance(ray *types.Ray) types.Vec3 {
	sc := tr.sc

	var hit accel.Intersection
	if !sc.Intersect(ray, &hit) {
		return sc.Background
	}

	mat := sc.Material(&hit)
	normal := hit.Normal
	if normal.Dot(ray.Dir) > 0 {
		normal = normal.Neg()
	}

	color := mat.Emission.Add(sc.Ambient.MulVec(mat.Albedo))
	point := hit.Point.Add(normal.Mul(types.RayEpsilon))
	for index := range sc.Lights {
		light := &sc.Lights[index]
		wi, _, li := light.Illuminate(point)
		cosTheta := normal.Dot(wi)
		if cosTheta <= 0 || sc.Occluded(point, light.Position) {
			continue
		}
		color = color.Add(mat.Albedo.MulVec(li).Mul(cosTheta))
	}

	return color
}

func rowSeed(seed, row uint32) int64 {
	return int64(seed)<<32 | int64(row)
}
