package analyzer

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// LumaDetector measures the mean absolute luma difference, in [0, 1].
type LumaDetector struct{}

// NewLumaDetector creates the default seam detector
func NewLumaDetector() *LumaDetector {
	return &LumaDetector{}
}

func (d *LumaDetector) Name() string { return "luma" }

func (d *LumaDetector) Diff(a, b image.Image) (float64, error) {
	ga, gb, err := grayPair(a, b)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := range ga.Pix {
		sum += math.Abs(float64(ga.Pix[i]) - float64(gb.Pix[i]))
	}
	return sum / float64(len(ga.Pix)) / 255, nil
}

// EdgeDetector compares Sobel edge maps: the share of pixels that are an
// edge in one frame and not the other. Sensitive to shapes jumping, blind to
// slow colour drift.
type EdgeDetector struct {
	EdgeThreshold float64 // Gradient magnitude threshold
}

// NewEdgeDetector creates a new edge-based detector with default settings
func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{
		EdgeThreshold: 30.0, // Moderate sensitivity
	}
}

func (d *EdgeDetector) Name() string { return "edge" }

func (d *EdgeDetector) Diff(a, b image.Image) (float64, error) {
	ga, gb, err := grayPair(a, b)
	if err != nil {
		return 0, err
	}

	ea := sobelEdgeDetection(ga, d.EdgeThreshold)
	eb := sobelEdgeDetection(gb, d.EdgeThreshold)

	changed := 0
	for i := range ea.Pix {
		if ea.Pix[i] != eb.Pix[i] {
			changed++
		}
	}
	return float64(changed) / float64(len(ea.Pix)), nil
}

func grayPair(a, b image.Image) (*image.Gray, *image.Gray, error) {
	if a.Bounds().Size() != b.Bounds().Size() {
		return nil, nil, fmt.Errorf("frame sizes differ: %v vs %v", a.Bounds().Size(), b.Bounds().Size())
	}
	if a.Bounds().Empty() {
		return nil, nil, fmt.Errorf("empty frame")
	}
	return toGrayscale(a), toGrayscale(b), nil
}

// toGrayscale converts an image to grayscale with its origin at (0, 0)
func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}

	return gray
}

// sobelEdgeDetection applies Sobel operator to detect edges
func sobelEdgeDetection(gray *image.Gray, threshold float64) *image.Gray {
	bounds := gray.Bounds()
	edges := image.NewGray(bounds)

	// Sobel kernels
	gx := [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	gy := [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			var sumX, sumY float64

			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					pixel := float64(gray.GrayAt(x+kx, y+ky).Y)
					sumX += pixel * float64(gx[ky+1][kx+1])
					sumY += pixel * float64(gy[ky+1][kx+1])
				}
			}

			if math.Sqrt(sumX*sumX+sumY*sumY) > threshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return edges
}
