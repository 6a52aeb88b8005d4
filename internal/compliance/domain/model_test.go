package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name      string
		total     int64
		compliant int64
		want      int
	}{
		{"empty period is perfect", 0, 0, 100},
		{"all compliant", 10, 10, 100},
		{"none compliant", 10, 0, 0},
		{"rounds up", 3, 2, 67},
		{"rounds down", 7, 3, 43},
		{"half", 2, 1, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.total, tc.compliant))
		})
	}
}

func TestLevelForScore(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, LevelExcellent},
		{90, LevelExcellent},
		{89, LevelGood},
		{75, LevelGood},
		{74, LevelWarning},
		{50, LevelWarning},
		{49, LevelViolation},
		{0, LevelViolation},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelForScore(tc.score), "score %d", tc.score)
	}
}
