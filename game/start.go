package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Range and count of the opening numbers offered to the first player.
const (
	StartMin        = 20000
	StartMax        = 30000
	StartCandidates = 5

	startStep = 12 // Divisible by 2, 3 and 4
)

// GenerateStartingNumbers draws n distinct opening numbers in
// [StartMin, StartMax], each divisible by every divisor.
func GenerateStartingNumbers(r *rand.Rand, n int) []int {
	lowest := (StartMin + startStep - 1) / startStep
	highest := StartMax / startStep
	available := highest - lowest + 1
	if n > available {
		panic(fmt.Sprintf("cannot draw %d distinct starting numbers from %d", n, available))
	}

	seen := make(map[int]bool, n)
	numbers := make([]int, 0, n)
	for len(numbers) < n {
		number := (lowest + r.Intn(available)) * startStep
		if seen[number] {
			continue
		}
		seen[number] = true
		numbers = append(numbers, number)
	}
	return numbers
}

// IsStartingNumber reports whether n could have been drawn by
// GenerateStartingNumbers.
func IsStartingNumber(n int) bool {
	return n >= StartMin && n <= StartMax && n%startStep == 0
}
