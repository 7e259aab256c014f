package main

import "time"

// Initialize JWT secret for handler tests
func init() {
	jwtSecret = []byte("test-secret-key-for-testing")
}

// testCandidate builds a fully-populated online candidate; mods tweak
// individual fields per test.
func testCandidate(id string, mods ...func(*Candidate)) Candidate {
	c := Candidate{
		ID:         id,
		Profession: "Software Engineer",
		Seniority:  SeniorityMid,
		Company:    "TechCorp",
		Goals:      []Goal{GoalNetworking, GoalCareerAdvice},
		Mode:       ModeOnline,
		Vibe:       VibeMixed,
		Timezone:   "UTC",
		Topics:     []string{"AI", "Startups"},
		Industries: []string{"Technology"},
		Availability: []AvailabilitySlot{
			{DayOfWeek: 1, StartMinute: 9 * 60, EndMinute: 12 * 60, Timezone: "UTC"},
		},
	}
	for _, m := range mods {
		m(&c)
	}
	return c
}

// emptyCandidate has every optional attribute unset.
func emptyCandidate(id string) Candidate {
	return Candidate{
		ID:        id,
		Seniority: SeniorityMid,
		Mode:      ModeOnline,
		Vibe:      VibeMixed,
		Timezone:  "UTC",
	}
}

func nycCity() *City {
	return &City{ID: "nyc", Name: "New York", Country: "US", Latitude: 40.7128, Longitude: -74.0060, Timezone: "America/New_York"}
}

func midtownCity() *City {
	return &City{ID: "mid", Name: "New York", Country: "US", Latitude: 40.7589, Longitude: -73.9851, Timezone: "America/New_York"}
}

func laCity() *City {
	return &City{ID: "la", Name: "Los Angeles", Country: "US", Latitude: 34.0522, Longitude: -118.2437, Timezone: "America/Los_Angeles"}
}

func eligibleFacts() EligibilityFacts {
	return EligibilityFacts{Onboarded: true}
}

// testSnapshot wraps candidates with all-eligible facts and no history.
func testSnapshot(locale string, candidates ...Candidate) *Snapshot {
	facts := make(map[string]EligibilityFacts, len(candidates))
	for _, c := range candidates {
		facts[c.ID] = eligibleFacts()
	}
	return &Snapshot{
		Locale:     locale,
		FetchedAt:  time.Now(),
		Candidates: candidates,
		Facts:      facts,
	}
}
