package analyzer

import "fmt"

// NewDetector creates a detector based on the specified variant
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "luma", "":
		return NewLumaDetector(), nil
	case "edge":
		return NewEdgeDetector(), nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
