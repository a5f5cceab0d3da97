package raster

import (
	"image"
	"math"

	"tds-scene/internal/mathutil"
	"tds-scene/internal/tds"
)

// Options controls the preview camera and output size.
type Options struct {
	Size        int     // edge of the square output in pixels
	Supersample int     // render at Size*Supersample, downsample later
	Yaw         float64 // degrees around the up axis
	Pitch       float64 // degrees of downward tilt
	Margin      int     // border in output pixels
}

// DefaultColor is used for objects without a bound material.
var DefaultColor = [3]uint8{160, 160, 170}

// RenderScene draws every object of s with an orthographic camera fitted to
// the scene bounds. The returned image is Size*Supersample pixels square.
func RenderScene(s *tds.Scene, opts Options) *image.NRGBA {
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	renderSize := opts.Size * ss
	fb := NewFrameBuffer(renderSize, renderSize)

	R := mathutil.Orbit(opts.Yaw, opts.Pitch)

	var bounds mathutil.Bounds
	for _, o := range s.Objects {
		for _, v := range o.Vertices {
			bounds.Extend(R.MulVec3(mathutil.FromPoint(v)))
		}
	}
	if bounds.Empty() {
		return fb.Image()
	}

	center := bounds.Center()
	size := bounds.Size()
	span := math.Max(size[0], size[1])
	if span < 1e-6 {
		span = 1e-6
	}
	margin := opts.Margin * ss
	scale := float64(renderSize-2*margin) / span
	half := float64(renderSize) / 2

	lc := DefaultLightConfig()

	for _, o := range s.Objects {
		if len(o.Vertices) == 0 {
			continue
		}
		base := objectColor(s, o)

		n := len(o.Vertices)
		view := make([]mathutil.Vec3, n)
		px := make([]float64, n)
		py := make([]float64, n)
		pz := make([]float64, n)
		for i, v := range o.Vertices {
			t := R.MulVec3(mathutil.FromPoint(v))
			view[i] = t
			px[i] = (t[0]-center[0])*scale + half
			py[i] = -(t[1]-center[1])*scale + half
			pz[i] = t[2]
		}

		for _, tri := range o.Triangles {
			idx := [3]int{int(tri[0]), int(tri[1]), int(tri[2])}
			normal, ok := faceNormal(view, idx)
			if !ok {
				continue
			}
			shade := lc.ComputeShade(normal)
			rgba := [4]uint8{lc.Shade(base[0], shade), lc.Shade(base[1], shade), lc.Shade(base[2], shade), 255}
			RasterizeTriangle(fb, px, py, pz, idx, rgba)
		}
	}

	return fb.Image()
}

// objectColor converts the bound material's diffuse color to sRGB bytes.
func objectColor(s *tds.Scene, o *tds.Object) [3]uint8 {
	if o.Material == "" {
		return DefaultColor
	}
	m := s.Material(o.Material)
	if m == nil {
		return DefaultColor
	}
	return [3]uint8{
		clamp255(float64(m.Diffuse[0]) * 255),
		clamp255(float64(m.Diffuse[1]) * 255),
		clamp255(float64(m.Diffuse[2]) * 255),
	}
}

// faceNormal returns the unit normal of a view-space triangle. Degenerate or
// out-of-range triangles report false.
func faceNormal(view []mathutil.Vec3, idx [3]int) (mathutil.Vec3, bool) {
	for _, i := range idx {
		if i < 0 || i >= len(view) {
			return mathutil.Vec3{}, false
		}
	}
	e1 := view[idx[1]].Sub(view[idx[0]])
	e2 := view[idx[2]].Sub(view[idx[0]])
	n := e1.Cross(e2)
	if n.Len() < 1e-12 {
		return mathutil.Vec3{}, false
	}
	return n.Normalize(), true
}
