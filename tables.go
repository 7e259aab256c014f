package main

// ComponentWeights holds one weight (or multiplier) per scoring component.
type ComponentWeights struct {
	Topics       float64 `yaml:"topics"`
	Industry     float64 `yaml:"industry"`
	Profession   float64 `yaml:"profession"`
	Goal         float64 `yaml:"goal"`
	Seniority    float64 `yaml:"seniority"`
	Availability float64 `yaml:"availability"`
	Distance     float64 `yaml:"distance"`
	Diversity    float64 `yaml:"diversity"`
}

func (w ComponentWeights) sum() float64 {
	return w.Topics + w.Industry + w.Profession + w.Goal +
		w.Seniority + w.Availability + w.Distance + w.Diversity
}

// defaultWeights are the base component weights; they sum to 1.0.
func defaultWeights() ComponentWeights {
	return ComponentWeights{
		Topics:       0.25,
		Industry:     0.15,
		Profession:   0.15,
		Goal:         0.15,
		Seniority:    0.10,
		Availability: 0.10,
		Distance:     0.05,
		Diversity:    0.05,
	}
}

// vibeAdjustments scale the base weights per member vibe. CASUAL leans on
// shared topics and diversity, PROFESSIONAL on industry, profession and
// seniority. MIXED is neutral across the board.
var vibeAdjustments = map[Vibe]ComponentWeights{
	VibeCasual: {
		Topics:       1.2,
		Industry:     0.8,
		Profession:   0.8,
		Goal:         1.1,
		Seniority:    0.9,
		Availability: 1.0,
		Distance:     1.0,
		Diversity:    1.1,
	},
	VibeProfessional: {
		Topics:       0.9,
		Industry:     1.3,
		Profession:   1.3,
		Goal:         1.2,
		Seniority:    1.2,
		Availability: 1.0,
		Distance:     1.0,
		Diversity:    0.8,
	},
	VibeMixed: {
		Topics:       1.0,
		Industry:     1.0,
		Profession:   1.0,
		Goal:         1.0,
		Seniority:    1.0,
		Availability: 1.0,
		Distance:     1.0,
		Diversity:    1.0,
	},
}

// professionRelations lists professions considered adjacent for the 0.8
// "related profession" score tier.
var professionRelations = map[string][]string{
	"Software Engineer": {"Product Manager", "Designer", "Data Scientist", "DevOps Engineer"},
	"Product Manager":   {"Software Engineer", "Designer", "Marketing Manager", "Business Analyst"},
	"Designer":          {"Product Manager", "Software Engineer", "Marketing Manager", "UX Researcher"},
	"Data Scientist":    {"Software Engineer", "Product Manager", "Business Analyst", "ML Engineer"},
	"Marketing Manager": {"Product Manager", "Designer", "Sales Manager", "Content Creator"},
	"Sales Manager":     {"Marketing Manager", "Business Development", "Account Manager", "Customer Success"},
	"Consultant":        {"Business Analyst", "Strategy Manager", "Project Manager", "Operations Manager"},
	"CEO":               {"CTO", "CMO", "CFO", "VP of Engineering", "VP of Sales"},
	"CTO":               {"CEO", "VP of Engineering", "Software Engineer", "Product Manager"},
}

// industryProximity lists industries considered close enough for the 0.7
// tier of the industry component.
var industryProximity = map[string][]string{
	"Technology": {"Software", "AI/ML", "Fintech", "Healthtech", "E-commerce"},
	"Finance":    {"Banking", "Investment", "Insurance", "Fintech", "Real Estate"},
	"Healthcare": {"Medical", "Pharma", "Biotech", "Healthtech", "Medical Devices"},
	"Consulting": {"Strategy", "Management", "Operations", "Technology", "Finance"},
	"Media":      {"Entertainment", "Publishing", "Advertising", "Social Media", "Gaming"},
	"Education":  {"EdTech", "Training", "Academic", "E-learning", "Research"},
}

// goalCompatibility maps each goal to the goals it pairs well with (the 0.8
// tier; identical goals score 1.0).
var goalCompatibility = map[Goal][]Goal{
	GoalNetworking:       {GoalCollaboration, GoalIndustryInsights, GoalFriendship},
	GoalMentorship:       {GoalCareerAdvice, GoalIndustryInsights, GoalNetworking},
	GoalCareerAdvice:     {GoalMentorship, GoalNetworking, GoalIndustryInsights},
	GoalIndustryInsights: {GoalNetworking, GoalCareerAdvice, GoalCollaboration},
	GoalCollaboration:    {GoalNetworking, GoalIndustryInsights, GoalFriendship},
	GoalFriendship:       {GoalNetworking, GoalCollaboration, GoalIndustryInsights},
}

// seniorityRank orders the levels so the fit component can work off the
// absolute rank difference. Unknown levels rank as MID, matching how
// profiles behaved before the level became mandatory.
func seniorityRank(s Seniority) int {
	switch s {
	case SeniorityEntry:
		return 1
	case SeniorityMid:
		return 2
	case SenioritySenior:
		return 3
	case SeniorityLead:
		return 4
	case SeniorityDirector:
		return 5
	case SeniorityVP:
		return 6
	case SeniorityCLevel:
		return 7
	}
	return 2
}
