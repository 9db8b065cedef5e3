package renderer

import (
	"fmt"
	"strings"
)

// GenerateLoopFilter builds the -vf chain for a preview encode: the rendered
// loop of frameCount frames is played repeats times back to back, then fit
// into width x height.
func GenerateLoopFilter(frameCount, repeats, width, height int) string {
	var parts []string

	// loop=N repeats the buffered frames N more times; size must cover the whole loop
	if repeats > 1 && frameCount > 0 {
		parts = append(parts, fmt.Sprintf("loop=loop=%d:size=%d:start=0", repeats-1, frameCount))
	}

	parts = append(parts,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", width, height),
		"setsar=1",
	)

	return strings.Join(parts, ",")
}

// LoopDuration is the length in seconds of the encoded preview.
func LoopDuration(frameCount, repeats, fps int) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frameCount*max(repeats, 1)) / float64(fps)
}
