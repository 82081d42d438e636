package heights

import (
	"github.com/montanaflynn/stats"
)

// Summary describes the distribution of the heights currently stored in a
// field.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
}

// Summarize computes a Summary over every stored height. An unseeded field
// yields the zero Summary.
func (f *Field) Summarize() Summary {
	data := make(stats.Float64Data, 0, f.count)
	for id, ok := range f.present {
		if ok {
			data = append(data, f.heights[id])
		}
	}
	if len(data) == 0 {
		return Summary{}
	}

	s := Summary{Count: len(data)}
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	s.StdDev, _ = data.StandardDeviation()
	return s
}
