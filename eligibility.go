package main

import "log"

// filterEligible reduces a snapshot's pool to the candidates allowed a new
// pairing this run. Only account-level checks happen here; anything that
// depends on the partner (cooldown, modality, distance) belongs to the
// matcher.
//
// Candidates missing from the facts map are excluded: risking a duplicate
// pairing is worse than skipping a member for one run.
func filterEligible(snap *Snapshot, cfg MatchConfig) []Candidate {
	eligible := make([]Candidate, 0, len(snap.Candidates))
	for _, c := range snap.Candidates {
		facts, ok := snap.Facts[c.ID]
		if !ok {
			log.Printf("eligibility: no account facts for %s, skipping", c.ID)
			continue
		}
		if !facts.Onboarded || facts.Paused {
			continue
		}
		if facts.HasOpenPairing {
			continue
		}
		quota := cfg.WeeklyQuotaFree
		if facts.HasElevatedQuota {
			quota = cfg.WeeklyQuotaPro
		}
		if facts.WeeklyPairings >= quota {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}
