package stats

import "math"

// PeakOptions select which local maxima FindPeaks keeps.
// Each criterion is applied only when its field is positive.
type PeakOptions struct {
	Threshold   float64 // Minimum vertical distance to both direct neighbours
	Prominence  float64 // Minimum prominence
	PlateauSize int     // Minimum number of samples in the flat top
	MaxWidth    float64 // Maximum width in samples, measured at RelHeight
	RelHeight   float64 // Relative height for width measurement (default: 0.5)
}

// Peaks describes the local maxima kept by FindPeaks. All slices are
// parallel; Prominences and Widths are set only when the corresponding
// criterion was requested.
type Peaks struct {
	Indices     []int
	LeftEdges   []int
	RightEdges  []int
	Prominences []float64
	Widths      []float64
}

// Len returns the number of peaks.
func (p *Peaks) Len() int {
	return len(p.Indices)
}

// keep retains the peaks whose mask entry is true.
func (p *Peaks) keep(mask []bool) {
	var out Peaks
	for i, ok := range mask {
		if !ok {
			continue
		}
		out.Indices = append(out.Indices, p.Indices[i])
		out.LeftEdges = append(out.LeftEdges, p.LeftEdges[i])
		out.RightEdges = append(out.RightEdges, p.RightEdges[i])
		if p.Prominences != nil {
			out.Prominences = append(out.Prominences, p.Prominences[i])
		}
		if p.Widths != nil {
			out.Widths = append(out.Widths, p.Widths[i])
		}
	}
	*p = out
}

// FindPeaks finds local maxima of x. A flat top counts as one peak located at
// its middle sample (rounded down) and reports its first and last sample as
// edges. The first and last samples of x are never peaks. Criteria are applied
// in order: plateau size, threshold, prominence, width.
func FindPeaks(x []float64, opts PeakOptions) *Peaks {
	p := localMaxima(x)

	if opts.PlateauSize > 0 {
		mask := make([]bool, p.Len())
		for i := range mask {
			mask[i] = p.RightEdges[i]-p.LeftEdges[i]+1 >= opts.PlateauSize
		}
		p.keep(mask)
	}

	if opts.Threshold > 0 {
		mask := make([]bool, p.Len())
		for i, k := range p.Indices {
			mask[i] = math.Min(x[k]-x[k-1], x[k]-x[k+1]) >= opts.Threshold
		}
		p.keep(mask)
	}

	if opts.Prominence <= 0 && opts.MaxWidth <= 0 {
		return p
	}

	leftBases := make([]int, p.Len())
	rightBases := make([]int, p.Len())
	p.Prominences = make([]float64, p.Len())
	for i, k := range p.Indices {
		p.Prominences[i], leftBases[i], rightBases[i] = prominence(x, k)
	}

	if opts.Prominence > 0 {
		mask := make([]bool, p.Len())
		var lb, rb []int
		for i := range mask {
			mask[i] = p.Prominences[i] >= opts.Prominence
			if mask[i] {
				lb = append(lb, leftBases[i])
				rb = append(rb, rightBases[i])
			}
		}
		p.keep(mask)
		leftBases, rightBases = lb, rb
	}

	if opts.MaxWidth > 0 {
		rel := opts.RelHeight
		if rel <= 0 {
			rel = 0.5
		}
		p.Widths = make([]float64, p.Len())
		mask := make([]bool, p.Len())
		for i, k := range p.Indices {
			p.Widths[i] = width(x, k, p.Prominences[i], leftBases[i], rightBases[i], rel)
			mask[i] = p.Widths[i] <= opts.MaxWidth
		}
		p.keep(mask)
	}

	return p
}

func localMaxima(x []float64) *Peaks {
	p := &Peaks{}
	last := len(x) - 1
	for i := 1; i < last; i++ {
		if !(x[i-1] < x[i]) {
			continue
		}
		ahead := i + 1
		for ahead < last && x[ahead] == x[i] {
			ahead++
		}
		if x[ahead] < x[i] {
			left, right := i, ahead-1
			p.Indices = append(p.Indices, (left+right)/2)
			p.LeftEdges = append(p.LeftEdges, left)
			p.RightEdges = append(p.RightEdges, right)
			i = ahead
		}
	}
	return p
}

// prominence walks away from the peak on each side until a higher sample or
// the end of x, and measures the peak against the higher of the two minima.
func prominence(x []float64, peak int) (float64, int, int) {
	leftMin, leftBase := x[peak], peak
	for i := peak; i >= 0 && x[i] <= x[peak]; i-- {
		if x[i] < leftMin {
			leftMin, leftBase = x[i], i
		}
	}

	rightMin, rightBase := x[peak], peak
	for i := peak; i < len(x) && x[i] <= x[peak]; i++ {
		if x[i] < rightMin {
			rightMin, rightBase = x[i], i
		}
	}

	return x[peak] - math.Max(leftMin, rightMin), leftBase, rightBase
}

// width measures the peak at x[peak] - prom*rel, interpolating the
// crossing points linearly between samples.
func width(x []float64, peak int, prom float64, leftBase, rightBase int, rel float64) float64 {
	height := x[peak] - prom*rel

	i := peak
	for leftBase < i && height < x[i] {
		i--
	}
	left := float64(i)
	if x[i] < height {
		left += (height - x[i]) / (x[i+1] - x[i])
	}

	i = peak
	for i < rightBase && height < x[i] {
		i++
	}
	right := float64(i)
	if x[i] < height {
		right -= (height - x[i]) / (x[i-1] - x[i])
	}

	return right - left
}
