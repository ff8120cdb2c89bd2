// Package render turns trajectory sets into artifacts: PNG map imagery
// and GeoJSON for downstream GIS tooling.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/paulmach/orb"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/legiontrack/legiontrack/pkg/config"
	"github.com/legiontrack/legiontrack/pkg/trajectory"
)

// Palette used for per-satellite coloring, same rotation as the
// original plots.
var palette = []color.NRGBA{
	{0x1f, 0x77, 0xb4, 0xff}, // blue
	{0x2c, 0xa0, 0x2c, 0xff}, // green
	{0xff, 0x7f, 0x0e, 0xff}, // orange
	{0x94, 0x67, 0xbd, 0xff}, // purple
	{0x17, 0xbe, 0xcf, 0xff}, // cyan
}

var (
	oceanColor     = color.NRGBA{0x10, 0x18, 0x28, 0xff}
	graticuleColor = color.NRGBA{0x2a, 0x36, 0x4a, 0xff}
	frameColor     = color.NRGBA{0x8a, 0x96, 0xaa, 0xff}
	textColor      = color.NRGBA{0xd8, 0xde, 0xe8, 0xff}
	observerColor  = color.NRGBA{0xe0, 0x30, 0x30, 0xff}
)

// Map renders one trajectory set onto an equirectangular map clipped to
// the run's extent. Every Render call builds a fresh image, so the
// filtered and unfiltered exports never share plotting state.
type Map struct {
	Path   string
	Title  string
	Width  int
	Height int

	// ColorByAltitude switches from per-satellite colors to an
	// altitude ramp with a side colorbar, like the filtered plot of
	// the original tool.
	ColorByAltitude bool
	MaxAltitudeKm   float64
}

const mapMargin = 40

// Render draws the trajectory set and writes the PNG to m.Path.
func (m *Map) Render(set *trajectory.Set, extent orb.Bound, obs config.Observer) error {
	w, h := m.Width, m.Height
	if w <= 0 {
		w = 1500
	}
	if h <= 0 {
		h = 1000
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill(img, oceanColor)

	p := projection{
		extent: extent,
		x0:     mapMargin,
		y0:     mapMargin,
		w:      w - 2*mapMargin,
		h:      h - 2*mapMargin,
	}

	m.drawGraticule(img, p)
	m.drawFrame(img, p)

	for idx, name := range set.Names() {
		t, _ := set.Get(name)
		c := palette[idx%len(palette)]
		m.drawTrajectory(img, p, t, c)
	}

	m.drawObserver(img, p, obs)
	m.drawLegend(img, p, set)
	if m.ColorByAltitude {
		m.drawColorbar(img, p)
	}
	if m.Title != "" {
		drawString(img, m.Title, mapMargin, mapMargin-12, textColor)
	}

	f, err := os.Create(m.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", m.Path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", m.Path, err)
	}
	return nil
}

// projection maps lon/lat degrees to pixels inside the plot area.
type projection struct {
	extent orb.Bound
	x0, y0 int
	w, h   int
}

func (p projection) toPixel(lon, lat float64) (int, int, bool) {
	west, east := p.extent.Min[0], p.extent.Max[0]
	south, north := p.extent.Min[1], p.extent.Max[1]

	if lon < west || lon > east || lat < south || lat > north {
		return 0, 0, false
	}

	x := p.x0 + int(float64(p.w)*(lon-west)/(east-west))
	y := p.y0 + int(float64(p.h)*(north-lat)/(north-south))
	return x, y, true
}

func (m *Map) drawGraticule(img *image.NRGBA, p projection) {
	west, east := p.extent.Min[0], p.extent.Max[0]
	south, north := p.extent.Min[1], p.extent.Max[1]

	for lon := math.Ceil(west/10) * 10; lon <= east; lon += 10 {
		x1, _, _ := p.toPixel(lon, south)
		for y := p.y0; y < p.y0+p.h; y++ {
			img.SetNRGBA(x1, y, graticuleColor)
		}
		drawString(img, fmt.Sprintf("%.0f", lon), x1-8, p.y0+p.h+16, frameColor)
	}
	for lat := math.Ceil(south/10) * 10; lat <= north; lat += 10 {
		_, y1, _ := p.toPixel(west, lat)
		for x := p.x0; x < p.x0+p.w; x++ {
			img.SetNRGBA(x, y1, graticuleColor)
		}
		drawString(img, fmt.Sprintf("%.0f", lat), 6, y1+4, frameColor)
	}
}

func (m *Map) drawFrame(img *image.NRGBA, p projection) {
	for x := p.x0; x <= p.x0+p.w; x++ {
		img.SetNRGBA(x, p.y0, frameColor)
		img.SetNRGBA(x, p.y0+p.h, frameColor)
	}
	for y := p.y0; y <= p.y0+p.h; y++ {
		img.SetNRGBA(p.x0, y, frameColor)
		img.SetNRGBA(p.x0+p.w, y, frameColor)
	}
}

func (m *Map) drawTrajectory(img *image.NRGBA, p projection, t *trajectory.Trajectory, c color.NRGBA) {
	for i, s := range t.Samples {
		sampleColor := c
		if m.ColorByAltitude {
			sampleColor = altitudeColor(s.AltKm, m.MaxAltitudeKm)
		}

		x, y, ok := p.toPixel(s.LonDeg, s.LatDeg)
		if ok {
			dot(img, x, y, sampleColor)
		}

		// Connect consecutive samples unless the segment crosses the
		// antimeridian, which would smear a line across the whole map.
		if i == 0 {
			continue
		}
		prev := t.Samples[i-1]
		if math.Abs(s.LonDeg-prev.LonDeg) > 180 {
			continue
		}
		x1, y1, ok1 := p.toPixel(prev.LonDeg, prev.LatDeg)
		if ok && ok1 {
			line(img, x1, y1, x, y, sampleColor)
		}
	}
}

func (m *Map) drawObserver(img *image.NRGBA, p projection, obs config.Observer) {
	x, y, ok := p.toPixel(obs.Lon, obs.Lat)
	if !ok {
		return
	}
	// Small upward triangle.
	for dy := 0; dy < 8; dy++ {
		for dx := -dy; dx <= dy; dx++ {
			img.SetNRGBA(x+dx, y+dy-4, observerColor)
		}
	}
	drawString(img, "observer", x+10, y+4, observerColor)
}

func (m *Map) drawLegend(img *image.NRGBA, p projection, set *trajectory.Set) {
	x := p.x0 + p.w - 180
	y := p.y0 + 16
	for idx, name := range set.Names() {
		c := palette[idx%len(palette)]
		for dx := 0; dx < 12; dx++ {
			for dy := 0; dy < 4; dy++ {
				img.SetNRGBA(x+dx, y-2+dy, c)
			}
		}
		drawString(img, name, x+18, y+4, textColor)
		y += 16
	}
}

func (m *Map) drawColorbar(img *image.NRGBA, p projection) {
	barX := p.x0 + p.w + 8
	for i := 0; i <= p.h; i++ {
		alt := m.MaxAltitudeKm * float64(p.h-i) / float64(p.h)
		c := altitudeColor(alt, m.MaxAltitudeKm)
		for dx := 0; dx < 10; dx++ {
			img.SetNRGBA(barX+dx, p.y0+i, c)
		}
	}
	drawString(img, fmt.Sprintf("%.0f km", m.MaxAltitudeKm), barX, p.y0-6, textColor)
	drawString(img, "0 km", barX, p.y0+p.h+14, textColor)
}

// altitudeColor maps altitude in [0, maxKm] onto a dark-blue to yellow
// ramp, clamping out-of-range values.
func altitudeColor(altKm, maxKm float64) color.NRGBA {
	if maxKm <= 0 {
		maxKm = 1
	}
	f := altKm / maxKm
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	// 0 -> deep blue, 0.5 -> teal, 1 -> yellow.
	switch {
	case f < 0.5:
		g := f * 2
		return color.NRGBA{
			R: uint8(68 + g*(33-68)),
			G: uint8(1 + g*(144-1)),
			B: uint8(84 + g*(140-84)),
			A: 0xff,
		}
	default:
		g := (f - 0.5) * 2
		return color.NRGBA{
			R: uint8(33 + g*(253-33)),
			G: uint8(144 + g*(231-144)),
			B: uint8(140 + g*(37-140)),
			A: 0xff,
		}
	}
}

func fill(img *image.NRGBA, c color.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func dot(img *image.NRGBA, x, y int, c color.NRGBA) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			img.SetNRGBA(x+dx, y+dy, c)
		}
	}
}

func line(img *image.NRGBA, x1, y1, x2, y2 int, c color.NRGBA) {
	dx, dy := x2-x1, y2-y1
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		img.SetNRGBA(x1, y1, c)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x1 + dx*i/steps
		y := y1 + dy*i/steps
		img.SetNRGBA(x, y, c)
	}
}

func drawString(img *image.NRGBA, s string, x, y int, c color.NRGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
