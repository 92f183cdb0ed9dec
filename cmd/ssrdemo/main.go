// Command ssrdemo renders screen-space reflections for a built-in test
// scene or an OpenEXR G-buffer and writes the composited image.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/ssr"
	"github.com/gogpu/ssr/gbuffer"
	"github.com/gogpu/ssr/gpu"
	"github.com/gogpu/ssr/internal/testscene"
)

func main() {
	var (
		width     = flag.Int("width", 800, "image width")
		height    = flag.Int("height", 600, "image height")
		sceneName = flag.String("scene", "mirror", "built-in scene: mirror or tilted")
		input     = flag.String("input", "", "OpenEXR G-buffer to load instead of a built-in scene")
		fov       = flag.Float64("fov", 60, "vertical field of view in degrees for -input")
		near      = flag.Float64("near", 0.1, "near plane for -input")
		far       = flag.Float64("far", 100, "far plane for -input")
		ortho     = flag.Float64("ortho", 0, "orthographic frustum height for -input (0 = perspective)")
		output    = flag.String("output", "ssr.png", "composited output file (.png, .tiff, .bmp, .exr)")
		layer     = flag.String("layer", "", "optional reflection layer output file")
		depth     = flag.String("depth", "", "optional linear depth visualization output file")
		saveG     = flag.String("save-gbuffer", "", "optional OpenEXR file receiving the input G-buffer")
		useGPU    = flag.Bool("gpu", false, "evaluate on the GPU when available")
		blur      = flag.Int("blur", 0, "box blur radius for the reflection layer")
		workers   = flag.Int("workers", 0, "CPU worker count (0 = GOMAXPROCS)")
		frames    = flag.Int("frames", 1, "frames to accumulate for orthographic cameras")
		opacity   = flag.Float64("opacity", ssr.DefaultOpacity, "reflection opacity")
		maxDist   = flag.Float64("max-distance", ssr.DefaultMaxDistance, "maximum reflection ray length")
		surfDist  = flag.Float64("surf-dist", ssr.DefaultSurfDist, "surface distance threshold")
		noise     = flag.Bool("noise", false, "jitter normals")
		selective = flag.Bool("selective", false, "reflect only metallic pixels")
		srgb      = flag.Bool("srgb", false, "sRGB-encode color in 8-bit outputs")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		ssr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	frame, cam, err := loadFrame(*input, *sceneName, *width, *height, *fov, *near, *far, *ortho)
	if err != nil {
		log.Fatalf("Failed to load frame: %v", err)
	}
	w, h := frame.Size()

	ctrl := ssr.NewController(cam)
	if err := ctrl.Resize(w, h); err != nil {
		log.Fatalf("Failed to size controller: %v", err)
	}
	// The built-in orthographic scene needs a coarser threshold.
	if !cam.Perspective && *input == "" && *surfDist == ssr.DefaultSurfDist {
		*surfDist = 0.3
	}
	setters := []func() error{
		func() error { return ctrl.SetOpacity(*opacity) },
		func() error { return ctrl.SetMaxDistance(*maxDist) },
		func() error { return ctrl.SetSurfDist(*surfDist) },
		func() error { return ctrl.SetNoise(*noise) },
		func() error { return ctrl.SetSelective(*selective) },
	}
	for _, set := range setters {
		if err := set(); err != nil {
			log.Fatalf("Invalid parameter: %v", err)
		}
	}

	pass, err := newPass(cam, w, h, *useGPU, *blur, *workers)
	if err != nil {
		log.Fatalf("Failed to create pass: %v", err)
	}
	defer pass.Release()

	in := &ssr.FrameInputs{Frame: frame, Camera: cam, Params: ctrl.Params()}
	n := 1
	if !cam.Perspective && *frames > 1 {
		n = *frames
	}
	var out *ssr.FrameOutputs
	for i := 0; i < n; i++ {
		out, err = pass.Execute(context.Background(), in)
		if err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
	}

	if err := gbuffer.SaveBuffer(*output, encoded(*output, out.Display, *srgb)); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	optional := []struct {
		path string
		buf  *ssr.Buffer
	}{
		{*layer, encoded(*layer, out.Layer, *srgb)},
		{*depth, ssr.LinearDepthImage(frame.Depth, cam)},
	}
	for _, o := range optional {
		if o.path == "" {
			continue
		}
		if err := gbuffer.SaveBuffer(o.path, o.buf); err != nil {
			log.Fatalf("Failed to save %s: %v", o.path, err)
		}
	}
	if *saveG != "" {
		if err := gbuffer.SaveEXR(*saveG, frame); err != nil {
			log.Fatalf("Failed to save G-buffer: %v", err)
		}
	}

	log.Printf("Reflections saved to %s (%dx%d, %d hits)\n", *output, w, h, out.Hits)
}

// encoded applies the sRGB curve to color written to 8-bit formats.
func encoded(path string, b *ssr.Buffer, srgb bool) *ssr.Buffer {
	if !srgb || path == "" {
		return b
	}
	if f, err := gbuffer.FormatFromPath(path); err == nil && f == gbuffer.FormatEXR {
		return b
	}
	return gbuffer.ToSRGB(b)
}

func loadFrame(input, sceneName string, width, height int, fov, near, far, ortho float64) (*ssr.Frame, ssr.Camera, error) {
	if input != "" {
		frame, err := gbuffer.LoadEXR(input)
		if err != nil {
			return nil, ssr.Camera{}, err
		}
		w, h := frame.Size()
		aspect := float64(w) / float64(h)
		if ortho > 0 {
			return frame, ssr.NewOrthographicCamera(-ortho*aspect/2, ortho*aspect/2, ortho/2, -ortho/2, near, far), nil
		}
		return frame, ssr.NewPerspectiveCamera(fov*math.Pi/180, aspect, near, far), nil
	}

	var (
		scene *testscene.Scene
		cam   ssr.Camera
	)
	switch sceneName {
	case "tilted":
		scene, cam = testscene.TiltedMirror()
	default:
		scene, cam = testscene.MirrorFloor(width, height)
	}
	return scene.Render(cam, width, height), cam, nil
}

func newPass(cam ssr.Camera, width, height int, useGPU bool, blur, workers int) (ssr.Pass, error) {
	if !cam.Perspective {
		return ssr.NewOrthographicPass(width, height, ssr.WithWorkers(workers))
	}
	if useGPU {
		return gpu.NewPass(width, height,
			gpu.WithBlur(blur),
			gpu.WithFallbackOptions(ssr.WithWorkers(workers)))
	}
	return ssr.NewSoftwarePass(width, height, ssr.WithBlur(blur), ssr.WithWorkers(workers))
}
