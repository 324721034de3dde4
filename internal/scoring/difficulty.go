package scoring

import (
	"fmt"

	"github.com/algoprep/pulse/internal/models"
)

// Difficulty progression thresholds.
const (
	promotionScore = 70.0
	demotionScore  = 40.0

	easyPromotionSolves   = 5
	mediumPromotionSolves = 3
)

// NextDifficulty evaluates the progression rule for one update. It is a
// pure function of the current state, score and solved counts, moves at
// most a single step, and returns the (possibly unchanged) difficulty
// with a reason when a transition happened.
func NextDifficulty(current string, score float64, solved map[string]int) (next string, reason string, changed bool) {
	switch current {
	case models.DifficultyEasy:
		if score >= promotionScore && solved[models.DifficultyEasy] >= easyPromotionSolves {
			return models.DifficultyMedium,
				fmt.Sprintf("promoted: score %.2f with %d easy problems solved", score, solved[models.DifficultyEasy]),
				true
		}
	case models.DifficultyMedium:
		if score >= promotionScore && solved[models.DifficultyMedium] >= mediumPromotionSolves {
			return models.DifficultyHard,
				fmt.Sprintf("promoted: score %.2f with %d medium problems solved", score, solved[models.DifficultyMedium]),
				true
		}
		if score < demotionScore {
			return models.DifficultyEasy,
				fmt.Sprintf("demoted: score %.2f below %.0f", score, demotionScore),
				true
		}
	case models.DifficultyHard:
		if score < demotionScore {
			return models.DifficultyMedium,
				fmt.Sprintf("demoted: score %.2f below %.0f", score, demotionScore),
				true
		}
	}

	return current, "", false
}

// StretchDifficulty returns the tier one level above the given one,
// used for stretch recommendations. Hard stays hard.
func StretchDifficulty(difficulty string) string {
	if difficulty == models.DifficultyEasy {
		return models.DifficultyMedium
	}
	return models.DifficultyHard
}
