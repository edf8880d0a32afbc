// Package telemetry broadcasts per-generation progress snapshots to any
// number of connected WebSocket sessions. It is the single
// synchronization point between the evolutionary loop and the outside
// world (spec.md §4.7, §5).
package telemetry

import (
	"github.com/mousetail/robot-rumble-genetic-bot/familytree"
	"github.com/mousetail/robot-rumble-genetic-bot/population"
)

// Snapshot is one broadcast frame: the best bot of the generation, the
// full species lineage, and the generation index. Serializes to the
// text-framed JSON documented in spec.md §6.
type Snapshot struct {
	BestBot         *population.Bot                               `json:"best_bot"`
	Species         map[population.Species]familytree.SpeciesInfo `json:"species"`
	IterationNumber int                                           `json:"iteration_number"`
	DiversityIndex  float64                                       `json:"diversity_index"`
	BestScoreTrend  []population.BotScore                         `json:"best_score_trend"`
}
