package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of samples.
	SamplesPerPixel uint32

	// Exposure for tonemapping.
	Exposure float32

	// Number of CPU tracers. A zero value selects one tracer per CPU.
	NumTracers int

	// Seed for the tracers' random number generators. Renders with the
	// same seed produce identical frames.
	Seed uint32
}
