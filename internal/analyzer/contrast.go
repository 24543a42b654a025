package analyzer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// ContrastDetector finds content regions with a Sobel edge pass, a dilation
// that merges neighbouring edges and a connected component scan.
type ContrastDetector struct {
	MinBlockArea  int     // px², smaller components are dropped
	EdgeThreshold float64 // gradient magnitude counted as an edge
}

func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  500,
		EdgeThreshold: 30.0,
	}
}

func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	edges := EdgeMap(img, d.EdgeThreshold)
	merged := dilate(edges, 5, 2)

	var blocks []Block
	for _, rect := range components(merged) {
		if rect.Dx()*rect.Dy() >= d.MinBlockArea {
			blocks = append(blocks, Block{Rect: rect, Confidence: 0.7})
		}
	}
	return blocks, nil
}

// Grayscale converts img to 8-bit luma.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)
	return gray
}

// EdgeMap marks pixels whose Sobel gradient exceeds threshold with 255.
func EdgeMap(img image.Image, threshold float64) *image.Gray {
	gray := Grayscale(img)
	b := gray.Bounds()
	edges := image.NewGray(b)

	gx := [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	gy := [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		for x := b.Min.X + 1; x < b.Max.X-1; x++ {
			var sx, sy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					p := float64(gray.GrayAt(x+kx, y+ky).Y)
					sx += p * gx[ky+1][kx+1]
					sy += p * gy[ky+1][kx+1]
				}
			}
			if math.Hypot(sx, sy) > threshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return edges
}

func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	b := img.Bounds()
	half := kernelSize / 2
	result := img

	for iter := 0; iter < iterations; iter++ {
		next := image.NewGray(b)
		for y := b.Min.Y + half; y < b.Max.Y-half; y++ {
			for x := b.Min.X + half; x < b.Max.X-half; x++ {
				var hi uint8
				for ky := -half; ky <= half && hi < 255; ky++ {
					for kx := -half; kx <= half; kx++ {
						hi = max(hi, result.GrayAt(x+kx, y+ky).Y)
					}
				}
				next.SetGray(x, y, color.Gray{Y: hi})
			}
		}
		result = next
	}
	return result
}

// components returns the bounding boxes of 4-connected bright regions.
func components(img *image.Gray) []image.Rectangle {
	b := img.Bounds()
	visited := make([]bool, b.Dx()*b.Dy())
	at := func(x, y int) int { return (y-b.Min.Y)*b.Dx() + (x - b.Min.X) }

	var out []image.Rectangle
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y > 128 && !visited[at(x, y)] {
				out = append(out, fill(img, visited, at, x, y))
			}
		}
	}
	return out
}

func fill(img *image.Gray, visited []bool, at func(x, y int) int, sx, sy int) image.Rectangle {
	b := img.Bounds()
	r := image.Rect(sx, sy, sx+1, sy+1)
	stack := []image.Point{{X: sx, Y: sy}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !p.In(b) || visited[at(p.X, p.Y)] || img.GrayAt(p.X, p.Y).Y <= 128 {
			continue
		}
		visited[at(p.X, p.Y)] = true
		r = r.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}
	return r
}
