package underwriting

var baseChance = []struct {
	min    int
	chance float64
}{
	{80, 95}, {70, 85}, {60, 75}, {50, 60}, {40, 40}, {30, 20},
}

// EstimateApproval returns the approval chance in percent for a requested
// amount. debtRatio is a fraction (0.45 = 45%). A non-positive capacity
// counts as fully used.
func EstimateApproval(score int, debtRatio float64, lenderCount int, requested, maxCapacity float64) float64 {
	chance := 5.0
	for _, b := range baseChance {
		if score >= b.min {
			chance = b.chance
			break
		}
	}

	switch {
	case debtRatio > 0.8:
		chance -= 40
	case debtRatio > 0.6:
		chance -= 30
	case debtRatio > 0.5:
		chance -= 20
	case debtRatio > 0.4:
		chance -= 10
	}

	switch {
	case lenderCount >= 8:
		chance -= 30
	case lenderCount >= 6:
		chance -= 20
	case lenderCount >= 4:
		chance -= 10
	}

	usage := 1.0
	if maxCapacity > 0 {
		usage = requested / maxCapacity
	}
	switch {
	case usage > 0.8:
		chance -= 15
	case usage > 0.6:
		chance -= 10
	case usage > 0.4:
		chance -= 5
	}

	return min(100, max(0, chance))
}
