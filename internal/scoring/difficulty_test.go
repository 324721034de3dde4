package scoring

import (
	"testing"

	"github.com/algoprep/pulse/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNextDifficulty(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		score       float64
		solved      map[string]int
		wantNext    string
		wantChanged bool
	}{
		{
			name:        "easy promotes with score and solves",
			current:     models.DifficultyEasy,
			score:       70,
			solved:      map[string]int{models.DifficultyEasy: 5},
			wantNext:    models.DifficultyMedium,
			wantChanged: true,
		},
		{
			name:        "easy holds below solve threshold even at top score",
			current:     models.DifficultyEasy,
			score:       100,
			solved:      map[string]int{models.DifficultyEasy: 4},
			wantNext:    models.DifficultyEasy,
			wantChanged: false,
		},
		{
			name:        "easy holds below score threshold",
			current:     models.DifficultyEasy,
			score:       69.99,
			solved:      map[string]int{models.DifficultyEasy: 10},
			wantNext:    models.DifficultyEasy,
			wantChanged: false,
		},
		{
			name:        "easy has no demotion target",
			current:     models.DifficultyEasy,
			score:       10,
			solved:      map[string]int{},
			wantNext:    models.DifficultyEasy,
			wantChanged: false,
		},
		{
			name:        "medium promotes to hard",
			current:     models.DifficultyMedium,
			score:       70,
			solved:      map[string]int{models.DifficultyMedium: 3},
			wantNext:    models.DifficultyHard,
			wantChanged: true,
		},
		{
			name:        "medium demotes below 40",
			current:     models.DifficultyMedium,
			score:       39.99,
			solved:      map[string]int{models.DifficultyMedium: 2},
			wantNext:    models.DifficultyEasy,
			wantChanged: true,
		},
		{
			name:        "medium holds in the middle band",
			current:     models.DifficultyMedium,
			score:       55,
			solved:      map[string]int{models.DifficultyMedium: 1},
			wantNext:    models.DifficultyMedium,
			wantChanged: false,
		},
		{
			name:        "hard demotes below 40",
			current:     models.DifficultyHard,
			score:       39.99,
			solved:      map[string]int{},
			wantNext:    models.DifficultyMedium,
			wantChanged: true,
		},
		{
			name:        "hard has no promotion target",
			current:     models.DifficultyHard,
			score:       100,
			solved:      map[string]int{models.DifficultyHard: 50},
			wantNext:    models.DifficultyHard,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, reason, changed := NextDifficulty(tt.current, tt.score, tt.solved)

			assert.Equal(t, tt.wantNext, next)
			assert.Equal(t, tt.wantChanged, changed)
			if changed {
				assert.NotEmpty(t, reason)
			} else {
				assert.Empty(t, reason)
			}
		})
	}
}

func TestNextDifficultySingleStepOnly(t *testing.T) {
	// A collapsing score from hard moves one step, never straight to easy.
	next, _, changed := NextDifficulty(models.DifficultyHard, 5, map[string]int{})

	assert.True(t, changed)
	assert.Equal(t, models.DifficultyMedium, next)
}

func TestStretchDifficulty(t *testing.T) {
	assert.Equal(t, models.DifficultyMedium, StretchDifficulty(models.DifficultyEasy))
	assert.Equal(t, models.DifficultyHard, StretchDifficulty(models.DifficultyMedium))
	assert.Equal(t, models.DifficultyHard, StretchDifficulty(models.DifficultyHard))
}
