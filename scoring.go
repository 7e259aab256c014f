package main

import (
	"math"
	"strings"
)

// scorePair computes the directed compatibility score from a's perspective.
// The component functions are symmetric, so score(a,b) and score(b,a)
// coincide today; both directions are still computed and kept separately by
// the matcher so the reciprocity gate stays correct if that ever changes.
func scorePair(cfg MatchConfig, a, b *Candidate) PairScore {
	adjA := vibeAdjustments[a.Vibe]
	adjB := vibeAdjustments[b.Vibe]

	// Average the two members' vibe multipliers per component.
	adj := ComponentWeights{
		Topics:       (adjA.Topics + adjB.Topics) / 2,
		Industry:     (adjA.Industry + adjB.Industry) / 2,
		Profession:   (adjA.Profession + adjB.Profession) / 2,
		Goal:         (adjA.Goal + adjB.Goal) / 2,
		Seniority:    (adjA.Seniority + adjB.Seniority) / 2,
		Availability: (adjA.Availability + adjB.Availability) / 2,
		Distance:     (adjA.Distance + adjB.Distance) / 2,
		Diversity:    (adjA.Diversity + adjB.Diversity) / 2,
	}

	comps := ScoreComponents{
		Topics:       topicsSimilarity(a, b) * adj.Topics,
		Industry:     industrySimilarity(a, b) * adj.Industry,
		Profession:   professionSimilarity(a, b) * adj.Profession,
		Goal:         goalCompatibilityScore(a, b) * adj.Goal,
		Seniority:    seniorityFit(a, b) * adj.Seniority,
		Availability: availabilityScore(a, b) * adj.Availability,
		Distance:     distancePenalty(cfg, a, b) * adj.Distance,
		Diversity:    diversityBoost(a, b) * adj.Diversity,
	}

	w := cfg.Weights
	score := comps.Topics*w.Topics +
		comps.Industry*w.Industry +
		comps.Profession*w.Profession +
		comps.Goal*w.Goal +
		comps.Seniority*w.Seniority +
		comps.Availability*w.Availability +
		comps.Distance*w.Distance +
		comps.Diversity*w.Diversity

	return PairScore{
		IDA:        a.ID,
		IDB:        b.ID,
		Score:      math.Max(0, math.Min(1, score)),
		Components: comps,
	}
}

// topicsSimilarity is the Jaccard similarity of the two topic sets,
// case-insensitive.
func topicsSimilarity(a, b *Candidate) float64 {
	setA := lowerSet(a.Topics)
	setB := lowerSet(b.Topics)

	intersection := 0
	union := len(setB)
	for t := range setA {
		if setB[t] {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func lowerSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set
}

// industrySimilarity: 1.0 on any shared industry, 0.7 when a pair of
// industries is listed as proximate, 0 otherwise.
func industrySimilarity(a, b *Candidate) float64 {
	best := 0.0
	for _, indA := range a.Industries {
		for _, indB := range b.Industries {
			if indA == indB {
				return 1.0
			}
			if containsString(industryProximity[indA], indB) ||
				containsString(industryProximity[indB], indA) {
				best = math.Max(best, 0.7)
			}
		}
	}
	return best
}

// professionSimilarity: 1.0 identical, 0.8 related per the static table,
// 0.5 neutral when either side left it unset, 0.3 otherwise.
func professionSimilarity(a, b *Candidate) float64 {
	if a.Profession == "" || b.Profession == "" {
		return 0.5
	}
	if a.Profession == b.Profession {
		return 1.0
	}
	if containsString(professionRelations[a.Profession], b.Profession) ||
		containsString(professionRelations[b.Profession], a.Profession) {
		return 0.8
	}
	return 0.3
}

// goalCompatibilityScore: 1.0 on a shared goal, 0.8 on a compatible pair,
// floor of 0.4 so mismatched goals never zero out a match.
func goalCompatibilityScore(a, b *Candidate) float64 {
	best := 0.0
	for _, ga := range a.Goals {
		for _, gb := range b.Goals {
			if ga == gb {
				return 1.0
			}
			if containsGoal(goalCompatibility[ga], gb) || containsGoal(goalCompatibility[gb], ga) {
				best = math.Max(best, 0.8)
			}
		}
	}
	if best == 0 {
		return 0.4
	}
	return best
}

// seniorityFit maps the absolute rank difference onto fixed tiers; a gap of
// three still scores 0.5 for mentor/mentee potential.
func seniorityFit(a, b *Candidate) float64 {
	diff := seniorityRank(a.Seniority) - seniorityRank(b.Seniority)
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		return 1.0
	case 1:
		return 0.9
	case 2:
		return 0.7
	case 3:
		return 0.5
	}
	return 0.3
}

// availabilityScore averages the normalized overlap over every same-day
// slot pair. Days where only one side has a slot are skipped entirely, not
// counted as zero. 0.7 is the neutral value when either side recorded no
// availability at all.
func availabilityScore(a, b *Candidate) float64 {
	if len(a.Availability) == 0 || len(b.Availability) == 0 {
		return 0.7
	}

	total := 0.0
	pairs := 0
	for _, slotA := range a.Availability {
		for _, slotB := range b.Availability {
			if slotA.DayOfWeek != slotB.DayOfWeek {
				continue
			}
			pairs++
			overlap := overlapMinutes(slotA, slotB)
			total += math.Min(float64(overlap)/120, 1) // normalize to 2h
		}
	}
	if pairs == 0 {
		return 0.7
	}
	return total / float64(pairs)
}

// distancePenalty only bites for in-person-relevant pairs: full score
// online, 0.5 when a location is missing, a gentle ramp down to 0.7 within
// the combined radius and 0.1 outside it.
func distancePenalty(cfg MatchConfig, a, b *Candidate) float64 {
	if a.Mode == ModeOnline || b.Mode == ModeOnline {
		return 1.0
	}
	if a.City == nil || b.City == nil {
		return 0.5
	}

	distance := haversine(a.City.Latitude, a.City.Longitude, b.City.Latitude, b.City.Longitude)
	radius := float64(minRadiusKm(cfg, a, b))

	if distance <= radius {
		return 1.0 - (distance/radius)*0.3
	}
	return 0.1
}

// diversityBoost rewards pairs that are not carbon copies: different
// companies and disjoint industries each add to the 0.5 base.
func diversityBoost(a, b *Candidate) float64 {
	score := 0.5
	if a.Company != "" && b.Company != "" && a.Company != b.Company {
		score += 0.3
	}

	shared := false
	for _, indA := range a.Industries {
		if containsString(b.Industries, indA) {
			shared = true
			break
		}
	}
	if !shared {
		score += 0.2
	}
	return math.Min(score, 1.0)
}

// minRadiusKm is the radius both members are comfortable with, falling back
// to the configured default for members who never set one.
func minRadiusKm(cfg MatchConfig, a, b *Candidate) int {
	ra := a.RadiusKm
	if ra <= 0 {
		ra = cfg.DefaultRadiusKm
	}
	rb := b.RadiusKm
	if rb <= 0 {
		rb = cfg.DefaultRadiusKm
	}
	if ra < rb {
		return ra
	}
	return rb
}

// Haversine formula for distance in km
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // Earth radius in km
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1 = lat1 * (math.Pi / 180)
	lat2 = lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsGoal(list []Goal, g Goal) bool {
	for _, v := range list {
		if v == g {
			return true
		}
	}
	return false
}
