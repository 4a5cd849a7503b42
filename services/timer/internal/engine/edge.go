// services/timer/internal/engine/edge.go
package engine

import "pmufw-go/types"

// A trigger input counts as logically high above the midpoint of the
// normalised 0-1000 channel scale.
const highThreshold = 500

func high(v int32) bool { return v > highThreshold }

// edgeFires reports whether a trigger configured with mode fires for the
// prev -> curr transition. EdgeLevel is deliberately not transition
// triggered: it fires on every evaluation while the signal is high.
func edgeFires(prev, curr int32, mode types.EdgeMode) bool {
	prevHigh, currHigh := high(prev), high(curr)
	switch mode {
	case types.EdgeRising:
		return !prevHigh && currHigh
	case types.EdgeFalling:
		return prevHigh && !currHigh
	case types.EdgeBoth:
		return prevHigh != currHigh
	case types.EdgeLevel:
		return currHigh
	}
	return false
}
