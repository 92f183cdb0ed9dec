package testscene

import (
	"math"

	"github.com/gogpu/ssr"
)

// Colors used by the preset scenes.
var (
	Sky   = ssr.RGB(0.2, 0.4, 0.8)
	Floor = ssr.RGB(0.3, 0.3, 0.3)
	Red   = ssr.RGB(1, 0, 0)
	Green = ssr.RGB(0, 1, 0)
)

// MirrorFloor returns a metallic floor at y = -1 under a red sphere centered
// at (0, 0, -6), seen by a 60° perspective camera at the origin.
func MirrorFloor(width, height int) (*Scene, ssr.Camera) {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	cam := ssr.NewPerspectiveCamera(math.Pi/3, aspect, 0.1, 100)
	s := &Scene{
		Objects: []Object{
			Plane{Point: ssr.V3(0, -1, 0), Normal: ssr.V3(0, 1, 0), Color: Floor, Metal: true},
			Sphere{Center: MirrorSphereCenter, Radius: 0.8, Color: Red},
		},
		Background: Sky,
	}
	return s, cam
}

// MirrorSphereCenter is the center of the sphere in MirrorFloor.
var MirrorSphereCenter = ssr.V3(0, 0, -6)

// TiltedMirror returns a plane facing (0, 1, 1) with a green sphere above it,
// seen by an orthographic camera. Reflections of the camera direction off
// the plane point straight up the screen.
func TiltedMirror() (*Scene, ssr.Camera) {
	cam := ssr.NewOrthographicCamera(-2, 2, 1.5, -1.5, 0.1, 20)
	s := &Scene{
		Objects: []Object{
			Plane{Point: ssr.V3(0, -1, -5), Normal: ssr.V3(0, 1, 1).Normalize(), Color: Floor, Metal: true},
			Sphere{Center: ssr.V3(0, 0.6, -5.2), Radius: 0.5, Color: Green},
		},
		Background: Sky,
	}
	return s, cam
}

// Empty returns a scene with nothing but background.
func Empty() *Scene {
	return &Scene{Background: Sky}
}
