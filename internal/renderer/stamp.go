package renderer

import (
	"image"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// NewStamp encodes text as a borderless QR code, one pixel per module.
func NewStamp(text string) (image.Image, error) {
	q, err := qrcode.New(text, qrcode.Low)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	return q.Image(-1), nil
}

// DrawStamp scales stamp into the bottom-right corner of dst, size pixels
// square with a margin of size/8. Frames too small for it are left alone.
func DrawStamp(dst draw.Image, stamp image.Image, size int) {
	b := dst.Bounds()
	margin := size / 8
	target := image.Rect(b.Max.X-margin-size, b.Max.Y-margin-size, b.Max.X-margin, b.Max.Y-margin)
	if size <= 0 || !target.In(b) {
		return
	}

	draw.NearestNeighbor.Scale(dst, target, stamp, stamp.Bounds(), draw.Src, nil)
}
