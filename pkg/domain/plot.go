package domain

import "fmt"

// PlotKind names one of the plot views of the panel.
type PlotKind string

const (
	PlotTimeSeries PlotKind = "ts"
	PlotScatter    PlotKind = "scatter"
	PlotFFT        PlotKind = "fft"
)

// PlotKinds lists every supported plot kind.
var PlotKinds = []PlotKind{PlotTimeSeries, PlotScatter, PlotFFT}

// ParsePlotKind validates a plot kind received from a front-end.
func ParsePlotKind(s string) (PlotKind, error) {
	for _, k := range PlotKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlot, s)
}

// PlotOptions holds the plot toggles. Each one also gates its screenshot action.
type PlotOptions struct {
	TimeSeries bool `json:"ts" yaml:"ts"`
	Scatter    bool `json:"scatter" yaml:"scatter"`
	FFT        bool `json:"fft" yaml:"fft"`
}

// DefaultPlotOptions returns every toggle checked.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{TimeSeries: true, Scatter: true, FFT: true}
}

// Enabled reports the toggle for kind.
func (p PlotOptions) Enabled(kind PlotKind) bool {
	switch kind {
	case PlotTimeSeries:
		return p.TimeSeries
	case PlotScatter:
		return p.Scatter
	case PlotFFT:
		return p.FFT
	}
	return false
}

// With returns a copy with the toggle for kind set.
func (p PlotOptions) With(kind PlotKind, enabled bool) (PlotOptions, error) {
	switch kind {
	case PlotTimeSeries:
		p.TimeSeries = enabled
	case PlotScatter:
		p.Scatter = enabled
	case PlotFFT:
		p.FFT = enabled
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownPlot, kind)
	}
	return p, nil
}
