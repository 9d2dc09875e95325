package mosaic

import "math"

// Cell is one image placed in a row with its final scaled dimensions.
type Cell struct {
	Image  Image
	Width  int
	Height int
}

type Row []Cell

// Layout is the computed arrangement: ordered rows plus the final canvas
// dimensions.
type Layout struct {
	Rows   []Row
	Width  int
	Height int
}

func (r Row) maxHeight() int {
	h := 0
	for _, c := range r {
		if c.Height > h {
			h = c.Height
		}
	}
	return h
}

// shouldCombine reports whether two adjacent images are similar enough in
// aspect ratio to sit side by side: |a1-a2| / max(a1,a2) <= tolerance.
func shouldCombine(prev, next Image, tolerance float64) bool {
	a1 := prev.AspectRatio()
	a2 := next.AspectRatio()
	m := math.Max(a1, a2)
	if m == 0 {
		return false
	}
	return math.Abs(a1-a2)/m <= tolerance
}

// groupImages walks the images in input order, greedily packing adjacent
// similar images into a row up to the per-row cap. Single forward pass, no
// backtracking, so identical input always yields identical rows.
func groupImages(images []Image, opts Options) [][]Image {
	if len(images) == 0 {
		return nil
	}
	var groups [][]Image
	current := []Image{images[0]}
	for _, img := range images[1:] {
		prev := current[len(current)-1]
		if shouldCombine(prev, img, opts.RatioTolerance) && len(current) < opts.MaxPerRow {
			current = append(current, img)
			continue
		}
		groups = append(groups, current)
		current = []Image{img}
	}
	return append(groups, current)
}

// ComputeLayout turns the input images into rows of scaled cells and the
// final canvas size. Each row is sized so that its image widths plus the
// borders between them sum to the target width (integer rounding aside).
func ComputeLayout(images []Image, opts Options) (*Layout, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	opts = opts.normalized()

	layout := &Layout{Width: opts.TargetWidth}
	for _, group := range groupImages(images, opts) {
		ratioSum := 0.0
		for _, img := range group {
			ratioSum += img.AspectRatio()
		}
		if ratioSum <= 0 {
			ratioSum = 1
		}
		targetHeight := int(float64(opts.TargetWidth) / ratioSum)

		row := make(Row, 0, len(group))
		totalNaive := 0
		for _, img := range group {
			w := int(float64(targetHeight) * img.AspectRatio())
			row = append(row, Cell{Image: img, Width: w, Height: targetHeight})
			totalNaive += w
		}

		// Shrink uniformly so widths plus inter-image borders fill the
		// target width exactly.
		available := opts.TargetWidth - opts.BorderSize*(len(group)-1)
		scale := 1.0
		if totalNaive > 0 {
			scale = float64(available) / float64(totalNaive)
		}
		for i := range row {
			row[i].Width = int(float64(row[i].Width) * scale)
			row[i].Height = int(float64(row[i].Height) * scale)
		}

		layout.Rows = append(layout.Rows, row)
	}

	for i, row := range layout.Rows {
		if i > 0 {
			layout.Height += opts.BorderSize
		}
		layout.Height += row.maxHeight()
	}
	return layout, nil
}
