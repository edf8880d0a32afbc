package evolution

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/mousetail/robot-rumble-genetic-bot/population"
)

// histogramBuckets is the number of buckets the generation histogram
// reports, a diagnostic named by spec.md §4.6 step 4 but left unshaped
// by it.
const histogramBuckets = 10

// Histogram summarizes one generation's final-round win totals: a mean,
// a standard deviation, and a fixed-width ASCII bucket histogram.
// Grounded on gonum.org/v1/gonum/stat, used the same way
// boyter-titfortat and Elvenson-alphabeth use it for score-distribution
// diagnostics.
func Histogram(bots []*population.Bot) string {
	if len(bots) == 0 {
		return "(empty population)"
	}

	scores := make([]float64, len(bots))
	for i, b := range bots {
		scores[i] = float64(b.Score.Wins[population.PlayoffRounds-1])
	}

	mean := stat.Mean(scores, nil)
	stddev := stat.StdDev(scores, nil)

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	var b strings.Builder
	fmt.Fprintf(&b, "mean=%.2f stddev=%.2f range=[%.0f,%.0f] ", mean, stddev, lo, hi)

	if hi == lo {
		fmt.Fprintf(&b, "histogram=[%d in single bucket]", len(bots))
		return b.String()
	}

	counts := make([]int, histogramBuckets)
	width := (hi - lo) / float64(histogramBuckets)
	for _, s := range scores {
		idx := int((s - lo) / width)
		if idx >= histogramBuckets {
			idx = histogramBuckets - 1
		}
		counts[idx]++
	}

	b.WriteString("histogram=[")
	for i, c := range counts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", c)
	}
	b.WriteString("]")

	return b.String()
}
