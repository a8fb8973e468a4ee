package services

import (
	"math/rand"
	"time"
)

// shuffledDigits returns a uniformly-random permutation of the digits 0-9.
// Each board draws its home and away axes independently.
func shuffledDigits() []int {
	digits := make([]int, 10)
	for i := range digits {
		digits[i] = i
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(digits), func(i, j int) { digits[i], digits[j] = digits[j], digits[i] })
	return digits
}

// digitPosition returns the axis position holding the given digit, or -1 if
// the slice is not a valid assignment.
func digitPosition(numbers []int, digit int) int {
	for i, n := range numbers {
		if n == digit {
			return i
		}
	}
	return -1
}

// winningIndex resolves the square index for a score pair: the row holding
// the home score's last digit and the column holding the away score's last
// digit, flattened as row*10+col.
func winningIndex(homeNumbers, awayNumbers []int, homeScore, awayScore int) int {
	row := digitPosition(homeNumbers, homeScore%10)
	col := digitPosition(awayNumbers, awayScore%10)
	if row < 0 || col < 0 {
		return -1
	}
	return row*10 + col
}
