package mosaic

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

type Composer struct {
	log *logger.Logger
}

func NewComposer(baseLog *logger.Logger) *Composer {
	return &Composer{log: baseLog.With("service", "MosaicComposer")}
}

// Render composes the images into a single PNG. The canvas starts white;
// each image is decoded, resized to its layout cell with CatmullRom
// resampling, vertically centered in its row, and placed left to right
// with borders only between images and between rows.
func (c *Composer) Render(images []Image, opts Options) ([]byte, error) {
	layout, err := ComputeLayout(images, opts)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()

	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	y := 0
	idx := 0
	for rowIndex, row := range layout.Rows {
		rowHeight := row.maxHeight()
		x := 0
		for cellIndex, cell := range row {
			resized, err := decodeAndResize(cell)
			if err != nil {
				c.log.Error("Mosaic image processing failed", "index", idx, "error", err)
				return nil, fmt.Errorf("%w: image %d: %v", ErrDecode, idx, err)
			}
			dc.DrawImage(resized, x, y+(rowHeight-cell.Height)/2)

			x += cell.Width
			if cellIndex < len(row)-1 {
				x += opts.BorderSize
			}
			idx++
		}
		y += rowHeight
		if rowIndex < len(layout.Rows)-1 {
			y += opts.BorderSize
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode mosaic png: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeAndResize(cell Cell) (image.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(cell.Image.Data))
	if err != nil {
		return nil, err
	}
	if cell.Width <= 0 || cell.Height <= 0 {
		return nil, fmt.Errorf("degenerate cell %dx%d", cell.Width, cell.Height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, cell.Width, cell.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst, nil
}
