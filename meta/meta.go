// meta/meta.go
package meta

// USE_ALPHA_BETA selects alpha-beta pruning over plain minimax by default.
const USE_ALPHA_BETA = true

// MAX_DEPTH defines the default search depth in plies.
const MAX_DEPTH = 4

// MIN_DEPTH and DEPTH_LIMIT bound the configurable search depth.
const MIN_DEPTH = 1
const DEPTH_LIMIT = 12

// ENGINE_SIDE defines which player the engine plays by default.
const ENGINE_SIDE = "second"

// GO_ROUTINES defines the number of goroutines used by experiments.
const GO_ROUTINES = 8

// NUM_GAMES defines the games played per experiment matchup.
const NUM_GAMES = 20

// NUM_POSITIONS defines the positions sampled per depth when comparing algorithms.
const NUM_POSITIONS = 50

// MAX_TURNS caps a game loop. No game from the opening range lasts this long.
const MAX_TURNS = 64
