package scoring

import (
	"math"

	"github.com/algoprep/pulse/internal/models"
)

// Scoring constants. The weights and reference values are a numeric
// contract shared with the difficulty thresholds; changing one side
// without the other skews progression.
const (
	accuracyWeight    = 0.4
	speedWeight       = 0.3
	consistencyWeight = 0.3

	// ExpectedSolveTimeMs is the reference solve time for the speed
	// component (5 minutes).
	ExpectedSolveTimeMs = 300000.0

	// neutralSpeedScore applies when no timing data exists yet.
	neutralSpeedScore = 50.0

	// velocityFactor saturates the consistency score at three accepted
	// solutions per day.
	velocityFactor = 33.3

	// SmoothingAlpha is the exponential moving average factor for solve
	// times.
	SmoothingAlpha = 0.3
)

// Score computes the composite 0-100 performance score from the
// record's stored fields, rounded to 2 decimal places.
func Score(record *models.UserPerformance) float64 {
	speed := neutralSpeedScore
	if record.AvgSolveTimeMs > 0 {
		speed = math.Max(0, 100-(record.AvgSolveTimeMs/ExpectedSolveTimeMs)*50)
	}

	consistency := math.Min(100, record.SolveVelocity*velocityFactor)

	score := record.Accuracy*accuracyWeight + speed*speedWeight + consistency*consistencyWeight
	return round2(score)
}

// SmoothTime folds a new timed sample into the moving average. The
// first sample becomes the average as-is.
func SmoothTime(oldAverage, sample float64) float64 {
	if oldAverage <= 0 {
		return sample
	}
	return SmoothingAlpha*sample + (1-SmoothingAlpha)*oldAverage
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
