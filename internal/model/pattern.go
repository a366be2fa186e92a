package model

// HourlyPattern counts completions per local hour of day (0-23).
// Sparse: an absent key means zero.
type HourlyPattern map[int]int

// WeeklyPattern counts completions per local weekday (0-6, 0 = Sunday,
// matching time.Weekday numbering). Sparse like HourlyPattern.
type WeeklyPattern map[int]int

// Top returns the hour with the highest count. Ties resolve to the
// lowest hour number so suggestions stay deterministic. ok is false when
// the pattern has no positive counts.
func (p HourlyPattern) Top() (hour int, ok bool) {
	best := 0
	for h := 0; h < 24; h++ {
		if c := p[h]; c > best {
			best = c
			hour = h
			ok = true
		}
	}
	return hour, ok
}

func (p HourlyPattern) Max() int {
	max := 0
	for _, c := range p {
		if c > max {
			max = c
		}
	}
	return max
}

// Rank returns weekdays ordered by descending count, ties broken by the
// lower weekday number. Days without completions are not ranked.
func (p WeeklyPattern) Rank() []int {
	out := make([]int, 0, len(p))
	for d := 0; d < 7; d++ {
		if p[d] > 0 {
			out = append(out, d)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && p[out[j]] > p[out[j-1]]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (p WeeklyPattern) Max() int {
	max := 0
	for _, c := range p {
		if c > max {
			max = c
		}
	}
	return max
}
