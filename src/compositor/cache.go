// Package compositor owns the per-capture pixel planes and rebuilds the
// on-screen buffer each frame: original pixels inside the current
// selection, a desaturated variant outside it, and rectangle outlines on
// top of both.
package compositor

import (
	"image"

	"screen-snip/src/geom"
)

// Outline colors, packed 0xAARRGGBB.
const (
	RedOutline   = 0xFFFF0000
	GreenOutline = 0xFF00FF00
)

// Cache holds three W*H planes for one captured image. original and
// dimmed are computed once and never written again; only composite is
// rewritten, so the cache allocates nothing after construction.
type Cache struct {
	W int
	H int

	original  []uint32
	dimmed    []uint32
	composite []uint32
}

// NewCache packs img into the original plane and derives the dimmed
// variant. img must be the unscaled capture; (W, H) are taken from its
// bounds.
func NewCache(img *image.RGBA) *Cache {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	c := &Cache{
		W:         w,
		H:         h,
		original:  make([]uint32, w*h),
		dimmed:    make([]uint32, w*h),
		composite: make([]uint32, w*h),
	}

	i := 0
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			o := x * 4
			r := uint32(row[o])
			g := uint32(row[o+1])
			bl := uint32(row[o+2])
			a := uint32(row[o+3])
			c.original[i] = a<<24 | r<<16 | g<<8 | bl
			c.dimmed[i] = dim(a, r, g, bl)
			i++
		}
	}
	return c
}

// dim desaturates a pixel to 30% saturation and darkens it slightly,
// integer arithmetic only.
func dim(a, r, g, b uint32) uint32 {
	gray := (3*r + 6*g + b) / 10
	dr := (3*r + 7*gray) / 10
	dg := (3*g + 7*gray) / 10
	db := (3*b + 7*gray) / 10
	return a<<24 | dr<<16 | dg<<8 | db
}

// Compose rebuilds the composite plane for the given selection and
// returns it. With no red rectangle the composite is the original image;
// otherwise the dimmed plane with the red window punched through, a red
// outline, and a green outline when a sub-selection exists.
func (c *Cache) Compose(red, green *geom.Rect) []uint32 {
	if red == nil {
		copy(c.composite, c.original)
		return c.composite
	}

	copy(c.composite, c.dimmed)

	y0, y1 := clampSpan(red.Y, red.Y+red.H, c.H)
	x0, x1 := clampSpan(red.X, red.X+red.W, c.W)
	for y := y0; y < y1; y++ {
		base := y * c.W
		copy(c.composite[base+x0:base+x1], c.original[base+x0:base+x1])
	}

	c.drawOutline(*red, RedOutline)
	if green != nil {
		c.drawOutline(*green, GreenOutline)
	}
	return c.composite
}

// Composite returns the buffer produced by the last Compose call.
func (c *Cache) Composite() []uint32 { return c.composite }

// drawOutline writes a 1-pixel border for r, skipping out-of-bounds
// pixels rather than clipping the rectangle itself.
func (c *Cache) drawOutline(r geom.Rect, color uint32) {
	for x := r.X; x < r.X+r.W; x++ {
		c.set(x, r.Y, color)
		c.set(x, r.Y+r.H-1, color)
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		c.set(r.X, y, color)
		c.set(r.X+r.W-1, y, color)
	}
}

func (c *Cache) set(x, y int, color uint32) {
	if x < 0 || x >= c.W || y < 0 || y >= c.H {
		return
	}
	c.composite[y*c.W+x] = color
}

func clampSpan(lo, hi, limit int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > limit {
		hi = limit
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
