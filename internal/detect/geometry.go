package detect

import (
	"image"
	"sort"
)

// ComputeIoU calculates Intersection over Union between two boxes.
func ComputeIoU(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}

	intersection := float64(inter.Dx() * inter.Dy())
	union := float64(a.Dx()*a.Dy()+b.Dx()*b.Dy()) - intersection
	if union <= 0 {
		return 0
	}

	return intersection / union
}

// Rescale multiplies every coordinate of r by factor.
func Rescale(r image.Rectangle, factor int) image.Rectangle {
	if factor <= 1 {
		return r
	}
	return image.Rect(r.Min.X*factor, r.Min.Y*factor, r.Max.X*factor, r.Max.Y*factor)
}

// Unmirror maps a box found in a horizontally mirrored frame of the given
// width back to the unmirrored frame.
func Unmirror(r image.Rectangle, width int) image.Rectangle {
	return image.Rect(width-r.Max.X, r.Min.Y, width-r.Min.X, r.Max.Y)
}

// Clip restricts r to bounds. Boxes outside bounds become empty.
func Clip(r, bounds image.Rectangle) image.Rectangle {
	return r.Intersect(bounds)
}

// Suppress keeps the highest quality detection of every group overlapping
// by more than threshold. The result is ordered by quality, best first.
func Suppress(dets []Detection, threshold float64) []Detection {
	sorted := make([]Detection, len(dets))
	copy(sorted, dets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Quality > sorted[j].Quality
	})

	kept := make([]Detection, 0, len(sorted))
	for _, d := range sorted {
		overlaps := false
		for _, k := range kept {
			if ComputeIoU(d.Box, k.Box) > threshold {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, d)
		}
	}
	return kept
}

// Largest returns the detection with the biggest box area.
func Largest(dets []Detection) (Detection, bool) {
	if len(dets) == 0 {
		return Detection{}, false
	}
	best := dets[0]
	for _, d := range dets[1:] {
		if d.Box.Dx()*d.Box.Dy() > best.Box.Dx()*best.Box.Dy() {
			best = d
		}
	}
	return best, true
}
