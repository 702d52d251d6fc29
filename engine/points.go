package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RoundPoints maps a round number to the points awarded per correct pick in
// that round. It is explicit configuration handed to the engine at
// construction so brackets can vary point values per season.
type RoundPoints map[int]int

// DefaultRoundPoints returns the stock table: 10 / 20 / 40.
func DefaultRoundPoints() RoundPoints {
	return RoundPoints{1: 10, 2: 20, 3: 40}
}

// ParseRoundPoints reads a "10,20,40" style override (BRACKET_ROUND_POINTS).
// An empty value yields the default table.
func ParseRoundPoints(value string) (RoundPoints, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultRoundPoints(), nil
	}

	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("round points must have 3 comma-separated values, got %q", value)
	}

	points := RoundPoints{}
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid round point value %q", part)
		}
		points[i+1] = v
	}
	return points, nil
}

// roundCurrency rounds away from zero to whole currency units. Payouts cross
// the engine boundary already rounded so fractional amounts never reach the
// ledger.
func roundCurrency(v float64) float64 {
	if v >= 0 {
		return math.Ceil(v - 1e-9)
	}
	return math.Floor(v + 1e-9)
}
