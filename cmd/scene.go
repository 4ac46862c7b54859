package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/chg95211/Ray-Tracing-Core/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Scene arguments with this prefix select a built-in scene.
const presetPrefix = "preset:"

// Load the scene referenced by the command's single argument. The argument
// is either a TOML scene path/URL or a preset name prefixed with "preset:".
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene file or preset argument")
	}

	arg := ctx.Args().First()
	if strings.HasPrefix(arg, presetPrefix) {
		name := strings.TrimPrefix(arg, presetPrefix)
		logger.Noticef("generating preset scene %q", name)
		return scene.Preset(name, scene.PresetOptions{
			Count: ctx.Int("spheres"),
			Seed:  ctx.Int64("seed"),
		})
	}

	return scene.Load(arg)
}

// Display scene and BVH information.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sceneInfo(sc))
	logger.Noticef("BVH statistics:\n%s", sc.BVH().Stats())
	return nil
}

func sceneInfo(sc *scene.Scene) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})

	bounds := sc.WorldBounds()
	center, radius := sc.BoundingSphere()
	table.AppendBulk([][]string{
		{"Camera", sc.Camera.String()},
		{"Lights", fmt.Sprintf("%d", len(sc.Lights))},
		{"Top-level primitives", fmt.Sprintf("%d", len(sc.Primitives))},
		{"Shapes", fmt.Sprintf("%d", sc.ShapeCount())},
		{"World bounds", fmt.Sprintf("%v - %v", bounds.Min, bounds.Max)},
		{"Bounding sphere", fmt.Sprintf("center %v, radius %.3f", center, radius)},
	})

	table.Render()
	return buf.String()
}
