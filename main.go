package main

import (
	"fmt"
	"os"

	"github.com/chg95211/Ray-Tracing-Core/cmd"
	"github.com/chg95211/Ray-Tracing-Core/scene"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "spheres",
			Value: scene.DefaultRandomSpheres,
			Usage: "number of spheres generated by the random preset",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "random seed",
		},
	}

	app := cli.NewApp()
	app.Name = "rtcore"
	app.Usage = "build BVH accelerators and ray trace scenes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: fmt.Sprintf(`
Render a still frame of a TOML scene description or a built-in preset and
save it as a PNG image. Available presets: %v`, scene.PresetNames()),
			ArgsUsage: "scene.toml | preset:name",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 16,
					Usage: "samples per pixel",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.IntFlag{
					Name:  "tracers",
					Value: 0,
					Usage: "number of cpu tracers (0 = one per cpu)",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "naive",
					Usage: "block scheduler (naive, perfect)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}, sceneFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:      "info",
			Usage:     "display scene and BVH statistics",
			ArgsUsage: "scene.toml | preset:name",
			Flags:     sceneFlags,
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:  "bench",
			Usage: "benchmark BVH queries against brute force intersection tests",
			Description: `
Fire random rays through the scene bounds and compare the BVH results with
testing every primitive. The command fails if any result differs.`,
			ArgsUsage: "scene.toml | preset:name",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 100000,
					Usage: "number of rays to trace",
				},
			}, sceneFlags...),
			Action: cmd.Benchmark,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
