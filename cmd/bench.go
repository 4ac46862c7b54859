package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/chg95211/Ray-Tracing-Core/accel"
	"github.com/chg95211/Ray-Tracing-Core/scene"
	"github.com/chg95211/Ray-Tracing-Core/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Results of tracing a ray batch through the BVH and by brute force.
type benchResult struct {
	Rays       int
	Hits       int
	Occluded   int
	Mismatches int

	BoxTests       int
	PrimitiveTests int

	BVHTime   time.Duration
	BruteTime time.Duration
}

// Compare BVH queries against brute-force primitive tests and report timings.
func Benchmark(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}
	if len(sc.Primitives) == 0 {
		return errors.New("bench: scene contains no primitives")
	}

	numRays := ctx.Int("rays")
	if numRays <= 0 {
		return fmt.Errorf("bench: ray count must be positive; got %d", numRays)
	}

	rng := rand.New(rand.NewSource(ctx.Int64("seed")))
	rays := benchRays(sc, rng, numRays)
	logger.Noticef("tracing %d rays against %d top-level primitives", numRays, len(sc.Primitives))

	res := runBench(sc, rays)
	logger.Noticef("benchmark results:\n%s", res)

	if res.Mismatches > 0 {
		return fmt.Errorf("bench: %d of %d rays disagree with brute force", res.Mismatches, res.Rays)
	}
	return nil
}

// Generate rays that start on a sphere enclosing the scene and aim at
// random points inside it.
func benchRays(sc *scene.Scene, rng *rand.Rand, count int) []types.Ray {
	center, radius := sc.BoundingSphere()
	if radius == 0 {
		radius = 1
	}

	rays := make([]types.Ray, count)
	for i := range rays {
		origin := center.Add(randomDir(rng).Mul(2 * radius))
		target := center.Add(randomDir(rng).Mul(rng.Float32() * radius))
		rays[i] = types.NewRay(origin, target.Sub(origin).Normalize())
	}
	return rays
}

// Pick a uniformly distributed unit vector by rejection sampling.
func randomDir(rng *rand.Rand) types.Vec3 {
	for {
		v := types.Vec3{2*rng.Float32() - 1, 2*rng.Float32() - 1, 2*rng.Float32() - 1}
		if lenSq := v.LenSquared(); lenSq > 1e-6 && lenSq <= 1 {
			return v.Normalize()
		}
	}
}

func runBench(sc *scene.Scene, rays []types.Ray) *benchResult {
	res := &benchResult{Rays: len(rays)}
	bvh := sc.BVH()

	bvhT := make([]float32, len(rays))
	bvhHit := make([]bool, len(rays))
	bvhOccluded := make([]bool, len(rays))

	start := time.Now()
	var counters accel.TraversalCounters
	for i := range rays {
		ray := rays[i]
		var hit accel.Intersection
		bvhHit[i] = bvh.IntersectCounted(&ray, &hit, &counters)
		bvhT[i] = hit.T

		ray = rays[i]
		bvhOccluded[i] = bvh.IntersectP(&ray)
	}
	res.BVHTime = time.Since(start)
	res.BoxTests = counters.BoxTests
	res.PrimitiveTests = counters.PrimitiveTests

	start = time.Now()
	for i := range rays {
		// Each hit shrinks TMax so the last registered hit is the closest one
		ray := rays[i]
		var hit accel.Intersection
		found := false
		for _, prim := range sc.Primitives {
			if prim.Intersect(&ray, &hit) {
				found = true
			}
		}

		occluded := false
		for _, prim := range sc.Primitives {
			ray = rays[i]
			if prim.IntersectP(&ray) {
				occluded = true
				break
			}
		}

		if found {
			res.Hits++
		}
		if occluded {
			res.Occluded++
		}
		if found != bvhHit[i] || (found && hit.T != bvhT[i]) || occluded != bvhOccluded[i] {
			res.Mismatches++
			logger.Debugf("ray %d: bvh (hit=%t, t=%f, occluded=%t); brute force (hit=%t, t=%f, occluded=%t)", i, bvhHit[i], bvhT[i], bvhOccluded[i], found, hit.T, occluded)
		}
	}
	res.BruteTime = time.Since(start)

	return res
}

func (res *benchResult) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Method", "Time", "Rays/sec", "Speedup"})

	rate := func(d time.Duration) string {
		if d <= 0 {
			return "-"
		}
		return fmt.Sprintf("%.0f", float64(res.Rays)/d.Seconds())
	}
	speedup := "-"
	if res.BVHTime > 0 {
		speedup = fmt.Sprintf("%.1fx", float64(res.BruteTime)/float64(res.BVHTime))
	}

	table.Append([]string{"BVH", res.BVHTime.String(), rate(res.BVHTime), speedup})
	table.Append([]string{"Brute force", res.BruteTime.String(), rate(res.BruteTime), "1.0x"})
	table.SetFooter([]string{
		fmt.Sprintf("%d rays", res.Rays),
		fmt.Sprintf("%d hits", res.Hits),
		fmt.Sprintf("%d occluded", res.Occluded),
		fmt.Sprintf("%d mismatches", res.Mismatches),
	})
	table.Render()

	fmt.Fprintf(&buf, "avg box tests/ray: %.2f, avg primitive tests/ray: %.2f\n",
		float64(res.BoxTests)/float64(res.Rays),
		float64(res.PrimitiveTests)/float64(res.Rays),
	)
	return buf.String()
}
