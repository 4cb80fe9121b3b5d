package engine

import (
	"divide/experiments/metrics"
	"divide/game"
	"divide/meta"
)

const MaxTurns = meta.MAX_TURNS

type Engine interface {
	// Run plays a game from the opening choice until the player on move is stuck
	Run() (outcome game.Outcome, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
