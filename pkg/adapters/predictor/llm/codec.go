package llm

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/nocagentic/forecaster/pkg/forecast"
)

// scaleTarget is the integer the 95th percentile of |values| is mapped to.
const scaleTarget = 1000

// encodeSeries rescales values to non-negative integers and renders them as a
// comma-separated sequence. The returned scale converts integers back.
func encodeSeries(values []float64) (string, float64) {
	abs := make([]float64, len(values))
	for i, v := range values {
		abs[i] = math.Abs(v)
	}
	sort.Float64s(abs)

	scale := 1.0
	if len(abs) > 0 {
		if q := forecast.Percentile(abs, 95); q > 0 {
			scale = q / scaleTarget
		}
	}

	parts := make([]string, len(values))
	for i, v := range values {
		n := math.Round(v / scale)
		if n < 0 {
			n = 0
		}
		parts[i] = strconv.FormatInt(int64(n), 10)
	}

	return strings.Join(parts, ", "), scale
}

// decodeContinuation parses the first horizon numbers of a completion and
// rescales them. Fewer than horizon numbers, or anything that is not a
// number, is an error.
func decodeContinuation(text string, horizon int, scale float64) ([]float64, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	if len(fields) < horizon {
		return nil, fmt.Errorf("continuation has %d values, want %d", len(fields), horizon)
	}

	out := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("continuation value %d is not a number: %q", i, fields[i])
		}
		out[i] = math.Max(v*scale, 0)
	}

	return out, nil
}

func buildPrompt(series string, horizon int) string {
	return fmt.Sprintf(
		"Continue this daily traffic sequence with the next %d values.\n"+
			"Reply with the continuation only, as comma-separated non-negative integers.\n\n%s,",
		horizon, series)
}
