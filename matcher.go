package main

import (
	"sort"
	"time"
)

// scoredPair is one surviving candidate pair with both directed scores.
// Pairs are normalized so a.ID sorts before b.ID, which keeps every
// downstream ordering deterministic.
type scoredPair struct {
	a, b     *Candidate
	scoreAB  float64 // from a's perspective
	scoreBA  float64 // from b's perspective
	avgScore float64
}

// canBePaired tests the hard constraints that make a pair impossible no
// matter how well it scores: modality compatibility, and for two in-person
// capable members, a shared location within the combined radius.
func canBePaired(cfg MatchConfig, a, b *Candidate) bool {
	if a.Mode == ModeOnline && b.Mode == ModeInPerson {
		return false
	}
	if a.Mode == ModeInPerson && b.Mode == ModeOnline {
		return false
	}

	if a.inPersonCapable() && b.inPersonCapable() {
		if a.City == nil || b.City == nil {
			return false
		}
		distance := haversine(a.City.Latitude, a.City.Longitude, b.City.Latitude, b.City.Longitude)
		if distance > float64(minRadiusKm(cfg, a, b)) {
			return false
		}
	}
	return true
}

// underCooldown reports whether the two members were already paired within
// the cooldown window.
func underCooldown(history []PastPairing, idA, idB string, now time.Time, cooldownWeeks int) bool {
	cutoff := now.AddDate(0, 0, -cooldownWeeks*7)
	for _, p := range history {
		if (p.IDA == idA && p.IDB == idB) || (p.IDA == idB && p.IDB == idA) {
			if p.CreatedAt.After(cutoff) {
				return true
			}
		}
	}
	return false
}

// scoreBucket scores every unordered pair in one bucket that survives the
// hard constraints and the cooldown check. This is read-only over the
// snapshot and safe to run concurrently with other buckets.
func scoreBucket(cfg MatchConfig, candidates []*Candidate, history []PastPairing, now time.Time) []scoredPair {
	var pairs []scoredPair
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if b.ID < a.ID {
				a, b = b, a
			}
			if !canBePaired(cfg, a, b) {
				continue
			}
			if underCooldown(history, a.ID, b.ID, now, cfg.CooldownWeeks) {
				continue
			}
			scoreAB := scorePair(cfg, a, b)
			scoreBA := scorePair(cfg, b, a)
			pairs = append(pairs, scoredPair{
				a:        a,
				b:        b,
				scoreAB:  scoreAB.Score,
				scoreBA:  scoreBA.Score,
				avgScore: (scoreAB.Score + scoreBA.Score) / 2,
			})
		}
	}
	return pairs
}

// buildPreferences computes each candidate's top-N partner set: all scored
// partners ordered by that candidate's own directed score, descending,
// partner id ascending on ties. The same definition applies to both sides
// of every pair.
func buildPreferences(pairs []scoredPair, topN int) map[string]map[string]bool {
	type pref struct {
		partner string
		score   float64
	}
	byCandidate := make(map[string][]pref)
	for _, p := range pairs {
		byCandidate[p.a.ID] = append(byCandidate[p.a.ID], pref{partner: p.b.ID, score: p.scoreAB})
		byCandidate[p.b.ID] = append(byCandidate[p.b.ID], pref{partner: p.a.ID, score: p.scoreBA})
	}

	prefs := make(map[string]map[string]bool, len(byCandidate))
	for id, list := range byCandidate {
		sort.Slice(list, func(i, j int) bool {
			if list[i].score != list[j].score {
				return list[i].score > list[j].score
			}
			return list[i].partner < list[j].partner
		})
		if len(list) > topN {
			list = list[:topN]
		}
		set := make(map[string]bool, len(list))
		for _, p := range list {
			set[p.partner] = true
		}
		prefs[id] = set
	}
	return prefs
}

// assignBucket walks one bucket's scored pairs best-first and greedily
// accepts each pair whose members are still unmatched and rank each other
// inside their top-N preference lists. The matched set is shared across
// all buckets of a run, so a BOTH member taken in one bucket is off the
// table everywhere else.
func assignBucket(cfg MatchConfig, pairs []scoredPair, matched map[string]bool) []scoredPair {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].avgScore != pairs[j].avgScore {
			return pairs[i].avgScore > pairs[j].avgScore
		}
		if pairs[i].a.ID != pairs[j].a.ID {
			return pairs[i].a.ID < pairs[j].a.ID
		}
		return pairs[i].b.ID < pairs[j].b.ID
	})

	prefs := buildPreferences(pairs, cfg.MutualTopN)

	var accepted []scoredPair
	for _, p := range pairs {
		if matched[p.a.ID] || matched[p.b.ID] {
			continue
		}
		if !prefs[p.a.ID][p.b.ID] || !prefs[p.b.ID][p.a.ID] {
			continue
		}
		matched[p.a.ID] = true
		matched[p.b.ID] = true
		accepted = append(accepted, p)
	}
	return accepted
}
