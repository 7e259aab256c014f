package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

// postgresSource loads the per-run candidate snapshot from Postgres. All
// queries happen up front; the matching pipeline itself never goes back to
// the database.
type postgresSource struct {
	db  *sql.DB
	cfg MatchConfig
}

func newPostgresSource(db *sql.DB, cfg MatchConfig) *postgresSource {
	return &postgresSource{db: db, cfg: cfg}
}

func (s *postgresSource) Snapshot(ctx context.Context, locale string) (*Snapshot, error) {
	now := time.Now()

	candidates, err := s.loadCandidates(ctx, locale)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	ids := make([]string, 0, len(candidates))
	for i := range candidates {
		ids = append(ids, candidates[i].ID)
	}

	if err := s.loadTopics(ctx, ids, candidates); err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	if err := s.loadIndustries(ctx, ids, candidates); err != nil {
		return nil, fmt.Errorf("load industries: %w", err)
	}
	if err := s.loadAvailability(ctx, ids, candidates); err != nil {
		return nil, fmt.Errorf("load availability: %w", err)
	}

	facts, err := s.loadFacts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load eligibility facts: %w", err)
	}

	history, err := s.loadHistory(ctx, ids, now)
	if err != nil {
		return nil, fmt.Errorf("load pairing history: %w", err)
	}

	return &Snapshot{
		Locale:     locale,
		FetchedAt:  now,
		Candidates: candidates,
		Facts:      facts,
		History:    history,
	}, nil
}

func (s *postgresSource) loadCandidates(ctx context.Context, locale string) ([]Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT u.id,
               COALESCE(p.profession, ''),
               p.profession_level,
               COALESCE(p.company, ''),
               p.goal1, p.goal2,
               p.mode, p.vibe, p.timezone,
               COALESCE(p.radius_km, 0),
               c.id, c.name, c.country, c.latitude, c.longitude, c.timezone
        FROM users u
        JOIN profiles p ON p.user_id = u.id
        LEFT JOIN cities c ON c.id = p.city_id
        WHERE p.timezone = $1
        ORDER BY u.id
    `, locale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var (
			c                Candidate
			level            string
			goal1, goal2     sql.NullString
			mode, vibe       string
			cityID           sql.NullString
			cityName         sql.NullString
			cityCountry      sql.NullString
			cityLat, cityLon sql.NullFloat64
			cityTZ           sql.NullString
		)
		err := rows.Scan(&c.ID, &c.Profession, &level, &c.Company,
			&goal1, &goal2, &mode, &vibe, &c.Timezone, &c.RadiusKm,
			&cityID, &cityName, &cityCountry, &cityLat, &cityLon, &cityTZ)
		if err != nil {
			log.Println("snapshot: candidate scan failed, skipping:", err)
			continue
		}

		// Profiles with corrupt enum values are skipped rather than
		// defaulted, consistent with the fail-safe rule for facts.
		if c.Seniority, err = ParseSeniority(level); err != nil {
			log.Printf("snapshot: %s: %v, skipping", c.ID, err)
			continue
		}
		if c.Mode, err = ParseMode(mode); err != nil {
			log.Printf("snapshot: %s: %v, skipping", c.ID, err)
			continue
		}
		if c.Vibe, err = ParseVibe(vibe); err != nil {
			log.Printf("snapshot: %s: %v, skipping", c.ID, err)
			continue
		}
		for _, raw := range []sql.NullString{goal1, goal2} {
			if !raw.Valid || raw.String == "" {
				continue
			}
			goal, err := ParseGoal(raw.String)
			if err != nil {
				log.Printf("snapshot: %s: %v, ignoring goal", c.ID, err)
				continue
			}
			c.Goals = append(c.Goals, goal)
		}
		if cityID.Valid {
			c.City = &City{
				ID:        cityID.String,
				Name:      cityName.String,
				Country:   cityCountry.String,
				Latitude:  cityLat.Float64,
				Longitude: cityLon.Float64,
				Timezone:  cityTZ.String,
			}
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (s *postgresSource) loadTopics(ctx context.Context, ids []string, candidates []Candidate) error {
	return s.loadNames(ctx, candidates, `
        SELECT pt.user_id, t.name
        FROM profile_topics pt
        JOIN topics t ON t.id = pt.topic_id
        WHERE pt.user_id = ANY($1)
    `, ids, func(c *Candidate, name string) {
		c.Topics = append(c.Topics, name)
	})
}

func (s *postgresSource) loadIndustries(ctx context.Context, ids []string, candidates []Candidate) error {
	return s.loadNames(ctx, candidates, `
        SELECT pi.user_id, i.name
        FROM profile_industries pi
        JOIN industries i ON i.id = pi.industry_id
        WHERE pi.user_id = ANY($1)
    `, ids, func(c *Candidate, name string) {
		c.Industries = append(c.Industries, name)
	})
}

func (s *postgresSource) loadNames(ctx context.Context, candidates []Candidate,
	query string, ids []string, add func(*Candidate, string)) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := candidateIndex(candidates)
	for rows.Next() {
		var userID, name string
		if err := rows.Scan(&userID, &name); err != nil {
			return err
		}
		if c, ok := byID[userID]; ok {
			add(c, name)
		}
	}
	return rows.Err()
}

func (s *postgresSource) loadAvailability(ctx context.Context, ids []string, candidates []Candidate) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT user_id, day_of_week, start_time, end_time, timezone
        FROM availability
        WHERE user_id = ANY($1)
        ORDER BY user_id, day_of_week, start_time
    `, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := candidateIndex(candidates)
	for rows.Next() {
		var (
			userID, start, end, tz string
			day                    int
		)
		if err := rows.Scan(&userID, &day, &start, &end, &tz); err != nil {
			return err
		}
		c, ok := byID[userID]
		if !ok {
			continue
		}
		startMin, err := clockToMinutes(start)
		if err != nil {
			log.Printf("snapshot: %s: dropping slot: %v", userID, err)
			continue
		}
		endMin, err := clockToMinutes(end)
		if err != nil {
			log.Printf("snapshot: %s: dropping slot: %v", userID, err)
			continue
		}
		slot := AvailabilitySlot{DayOfWeek: day, StartMinute: startMin, EndMinute: endMin, Timezone: tz}
		if !validSlot(slot, s.cfg.MinSlotMinutes) {
			log.Printf("snapshot: %s: dropping invalid slot %d %s-%s", userID, day, start, end)
			continue
		}
		c.Availability = append(c.Availability, slot)
	}
	return rows.Err()
}

// loadFacts resolves the account-level eligibility facts in one query.
// A candidate whose facts row fails to scan is simply absent from the map,
// which the eligibility filter treats as "exclude".
func (s *postgresSource) loadFacts(ctx context.Context, ids []string) (map[string]EligibilityFacts, error) {
	facts := make(map[string]EligibilityFacts, len(ids))
	if len(ids) == 0 {
		return facts, nil
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT u.id,
               COALESCE(p.is_onboarded, FALSE),
               COALESCE(p.is_paused, FALSE),
               EXISTS (
                   SELECT 1 FROM pairings g
                   WHERE (g.user1_id = u.id OR g.user2_id = u.id)
                     AND g.status IN ('PENDING', 'CONFIRMED')
               ),
               (
                   SELECT COUNT(*) FROM pairings g
                   WHERE (g.user1_id = u.id OR g.user2_id = u.id)
                     AND g.created_at >= date_trunc('week', NOW())
               ),
               EXISTS (
                   SELECT 1 FROM subscriptions sub
                   WHERE sub.user_id = u.id
                     AND sub.type = 'PRO_MONTHLY'
                     AND sub.status = 'active'
                     AND sub.end_date > NOW()
               )
        FROM users u
        JOIN profiles p ON p.user_id = u.id
        WHERE u.id = ANY($1)
    `, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id string
			f  EligibilityFacts
		)
		if err := rows.Scan(&id, &f.Onboarded, &f.Paused, &f.HasOpenPairing,
			&f.WeeklyPairings, &f.HasElevatedQuota); err != nil {
			log.Println("snapshot: facts scan failed, excluding candidate:", err)
			continue
		}
		facts[id] = f
	}
	return facts, rows.Err()
}

func (s *postgresSource) loadHistory(ctx context.Context, ids []string, now time.Time) ([]PastPairing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cutoff := now.AddDate(0, 0, -s.cfg.CooldownWeeks*7)
	rows, err := s.db.QueryContext(ctx, `
        SELECT user1_id, user2_id, created_at
        FROM pairings
        WHERE created_at >= $1
          AND (user1_id = ANY($2) OR user2_id = ANY($2))
    `, cutoff, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []PastPairing
	for rows.Next() {
		var p PastPairing
		if err := rows.Scan(&p.IDA, &p.IDB, &p.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, p)
	}
	return history, rows.Err()
}

func candidateIndex(candidates []Candidate) map[string]*Candidate {
	byID := make(map[string]*Candidate, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}
	return byID
}
