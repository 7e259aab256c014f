package main

import (
	"fmt"
	"time"
)

// Mode is the meeting modality a member signed up for.
type Mode string

const (
	ModeOnline   Mode = "ONLINE"
	ModeInPerson Mode = "IN_PERSON"
	ModeBoth     Mode = "BOTH"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOnline, ModeInPerson, ModeBoth:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}

// Vibe reweights the scoring components towards casual or professional fit.
type Vibe string

const (
	VibeCasual       Vibe = "CASUAL"
	VibeProfessional Vibe = "PROFESSIONAL"
	VibeMixed        Vibe = "MIXED"
)

func ParseVibe(s string) (Vibe, error) {
	switch Vibe(s) {
	case VibeCasual, VibeProfessional, VibeMixed:
		return Vibe(s), nil
	}
	return "", fmt.Errorf("invalid vibe %q", s)
}

// Goal is what a member wants out of their coffee chats. A profile carries
// up to two of these.
type Goal string

const (
	GoalNetworking       Goal = "NETWORKING"
	GoalMentorship       Goal = "MENTORSHIP"
	GoalCareerAdvice     Goal = "CAREER_ADVICE"
	GoalIndustryInsights Goal = "INDUSTRY_INSIGHTS"
	GoalCollaboration    Goal = "COLLABORATION"
	GoalFriendship       Goal = "FRIENDSHIP"
)

func ParseGoal(s string) (Goal, error) {
	switch Goal(s) {
	case GoalNetworking, GoalMentorship, GoalCareerAdvice,
		GoalIndustryInsights, GoalCollaboration, GoalFriendship:
		return Goal(s), nil
	}
	return "", fmt.Errorf("invalid goal %q", s)
}

// Seniority is an ordered career level; see seniorityRank for the ordering.
type Seniority string

const (
	SeniorityEntry    Seniority = "ENTRY"
	SeniorityMid      Seniority = "MID"
	SenioritySenior   Seniority = "SENIOR"
	SeniorityLead     Seniority = "LEAD"
	SeniorityDirector Seniority = "DIRECTOR"
	SeniorityVP       Seniority = "VP"
	SeniorityCLevel   Seniority = "C_LEVEL"
)

func ParseSeniority(s string) (Seniority, error) {
	switch Seniority(s) {
	case SeniorityEntry, SeniorityMid, SenioritySenior, SeniorityLead,
		SeniorityDirector, SeniorityVP, SeniorityCLevel:
		return Seniority(s), nil
	}
	return "", fmt.Errorf("invalid seniority level %q", s)
}

// AvailabilitySlot is one recurring weekly window a member is free in.
// Times are naive minute-of-day values; the timezone label is carried
// through unconverted.
type AvailabilitySlot struct {
	DayOfWeek   int // 0 = Sunday .. 6 = Saturday
	StartMinute int
	EndMinute   int
	Timezone    string
}

// City is a member's home location used for in-person matching.
type City struct {
	ID        string
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	Timezone  string
}

// Candidate is one member's matching-relevant profile, snapshotted for a
// single run. Optional attributes are zero-valued when unset; every scoring
// component has an explicit neutral value for them.
type Candidate struct {
	ID           string
	Profession   string
	Seniority    Seniority
	Company      string
	Goals        []Goal // at most two
	Mode         Mode
	Vibe         Vibe
	Timezone     string
	City         *City // nil unless a home location is set
	RadiusKm     int   // 0 means the configured default applies
	Topics       []string
	Industries   []string
	Availability []AvailabilitySlot
}

// inPersonCapable reports whether the candidate participates in the
// in-person channel at all.
func (c *Candidate) inPersonCapable() bool {
	return c.Mode == ModeInPerson || c.Mode == ModeBoth
}

// EligibilityFacts are the account-level facts the store supplies per
// candidate; the filter never derives these itself.
type EligibilityFacts struct {
	Onboarded        bool
	Paused           bool
	HasOpenPairing   bool // any pairing in PENDING or CONFIRMED
	WeeklyPairings   int  // pairings created since Monday 00:00
	HasElevatedQuota bool // active pro entitlement
}

// PastPairing is a prior pairing between two members, used for the
// re-match cooldown check.
type PastPairing struct {
	IDA       string
	IDB       string
	CreatedAt time.Time
}

// Snapshot is the immutable per-run input: the candidate pool for one
// locale plus the account facts and cooldown history needed to match it.
type Snapshot struct {
	Locale     string
	FetchedAt  time.Time
	Candidates []Candidate
	Facts      map[string]EligibilityFacts
	History    []PastPairing
}

// ScoreComponents is the per-component breakdown of one directed score,
// after vibe adjustment but before the base weights are applied.
type ScoreComponents struct {
	Topics       float64 `json:"topics"`
	Industry     float64 `json:"industry"`
	Profession   float64 `json:"profession"`
	Goal         float64 `json:"goal"`
	Seniority    float64 `json:"seniority"`
	Availability float64 `json:"availability"`
	Distance     float64 `json:"distance"`
	Diversity    float64 `json:"diversity"`
}

// PairScore is the directed compatibility score from IDA's perspective.
type PairScore struct {
	IDA        string          `json:"user1_id"`
	IDB        string          `json:"user2_id"`
	Score      float64         `json:"score"`
	Components ScoreComponents `json:"components"`
}

// ProposedSlot is one concrete meeting-time suggestion attached to a
// proposal. The date is the next occurrence of the overlap's weekday and
// the timezone label comes from the first participant's profile.
type ProposedSlot struct {
	Date      string `json:"date"` // YYYY-MM-DD
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone"`
}

// PairingProposal is the engine's output unit. Ownership passes to the
// publisher as soon as it is emitted; the engine keeps no state about it.
type PairingProposal struct {
	ID        string         `json:"id"`
	IDA       string         `json:"user1_id"`
	IDB       string         `json:"user2_id"`
	ScoreAB   float64        `json:"score_1_to_2"`
	ScoreBA   float64        `json:"score_2_to_1"`
	AvgScore  float64        `json:"avg_score"`
	Mode      Mode           `json:"mode"`
	Slots     []ProposedSlot `json:"proposed_slots"`
	CreatedAt time.Time      `json:"created_at"`
}
