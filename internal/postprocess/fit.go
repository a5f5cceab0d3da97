package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Fit crops img to its non-transparent pixels and centers the result on a
// transparent size×size canvas, scaled so its longer side spans fillRatio of
// the canvas. Fully transparent input yields an empty canvas.
func Fit(img *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	box, ok := opaqueBounds(img)
	if !ok {
		return canvas
	}

	srcW, srcH := box.Dx(), box.Dy()
	scale := float64(size) * fillRatio / math.Max(float64(srcW), float64(srcH))
	newW := max(1, int(float64(srcW)*scale+0.5))
	newH := max(1, int(float64(srcH)*scale+0.5))

	offX := (size - newW) / 2
	offY := (size - newH) / 2
	dst := image.Rect(offX, offY, offX+newW, offY+newH)
	draw.CatmullRom.Scale(canvas, dst, img, box, draw.Src, nil)
	return canvas
}

// opaqueBounds returns the smallest rectangle holding every pixel with
// non-zero alpha.
func opaqueBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
