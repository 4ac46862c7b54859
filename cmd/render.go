package cmd

import (
	"fmt"

	"github.com/chg95211/Ray-Tracing-Core/renderer"
	"github.com/chg95211/Ray-Tracing-Core/tracer"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		Exposure:        float32(ctx.Float64("exposure")),
		NumTracers:      ctx.Int("tracers"),
		Seed:            uint32(ctx.Int64("seed")),
	}

	scheduler, err := blockScheduler(ctx.String("scheduler"))
	if err != nil {
		return err
	}

	// Load scene
	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	// Create renderer
	r, err := renderer.NewDefault(sc, scheduler, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	frame, err := r.Render()
	if err != nil {
		return err
	}

	imgFile := ctx.String("out")
	if err = renderer.SavePNG(frame, imgFile); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	// Display stats
	logger.Noticef("frame statistics\n%s", r.Stats())
	return nil
}

func blockScheduler(name string) (tracer.BlockScheduler, error) {
	switch name {
	case "", "naive":
		return tracer.NaiveScheduler(), nil
	case "perfect":
		return tracer.PerfectScheduler(), nil
	}
	return nil, fmt.Errorf("unknown block scheduler %q; supported schedulers: naive, perfect", name)
}
