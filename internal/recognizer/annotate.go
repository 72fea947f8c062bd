package recognizer

import (
	"fmt"
	"image"

	"github.com/carck/gg"
)

// Annotate draws the face boxes of res onto a copy of frame: red for
// accepted faces with their name and confidence, green for the rest.
func Annotate(frame image.Image, res *FrameResult) image.Image {
	dc := gg.NewContextForImage(frame)
	dc.SetLineWidth(2)

	for _, f := range res.Faces {
		x, y := float64(f.Box.Min.X), float64(f.Box.Min.Y)
		w, h := float64(f.Box.Dx()), float64(f.Box.Dy())

		if f.Accepted {
			dc.SetRGB(1, 0, 0)
		} else {
			dc.SetRGB(0, 1, 0)
		}
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()

		if f.Accepted {
			label := fmt.Sprintf("%s %.0f%%", DisplayName(f.Result.Name), f.Result.Confidence)
			dc.DrawString(label, x, max(y-4, 12))
		}
	}
	return dc.Image()
}
