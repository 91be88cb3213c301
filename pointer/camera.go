package pointer

import (
	V "diesel.com/elastic/vector"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

//Camera is a perspective look-at camera over a window viewport
type Camera struct {
	Eye    V.Vec32
	Target V.Vec32
	Up     V.Vec32
	FovY   float32 //Degrees
	Near   float32
	Far    float32
	Width  int
	Height int
}

func DefaultCamera(width int, height int) *Camera {
	return &Camera{
		Eye:    V.Vec32{0, 0, 5},
		Target: V.Vec32{0, 0, 0},
		Up:     V.Vec32{0, 1, 0},
		FovY:   45,
		Near:   0.1,
		Far:    100,
		Width:  width,
		Height: height,
	}
}

func (c *Camera) Aspect() float32 {
	if c.Height == 0 {
		return 1
	}
	return float32(c.Width) / float32(c.Height)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect(), c.Near, c.Far)
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye.Mgl(), c.Target.Mgl(), c.Up.Mgl())
}

//Ray unprojects a cursor position (window pixels, origin top left) into a
//world space ray starting on the near plane
func (c *Camera) Ray(x float64, y float64) (V.Vec32, V.Vec32, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return V.Vec32{}, V.Vec32{}, errors.Errorf("viewport %dx%d", c.Width, c.Height)
	}
	winX := float32(x)
	winY := float32(c.Height) - float32(y)
	view := c.View()
	proj := c.Projection()

	near, err := mgl32.UnProject(mgl32.Vec3{winX, winY, 0}, view, proj, 0, 0, c.Width, c.Height)
	if err != nil {
		return V.Vec32{}, V.Vec32{}, errors.Wrap(err, "unproject near plane")
	}
	far, err := mgl32.UnProject(mgl32.Vec3{winX, winY, 1}, view, proj, 0, 0, c.Width, c.Height)
	if err != nil {
		return V.Vec32{}, V.Vec32{}, errors.Wrap(err, "unproject far plane")
	}

	origin := V.FromMgl(near)
	dir := V.Normalize(V.Sub(V.FromMgl(far), origin))
	return origin, dir, nil
}
