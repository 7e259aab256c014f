package main

import (
	"context"
	"database/sql"
	"log"
)

// postgresPublisher persists each proposal and its proposed slots, then
// pushes a pairing_created event to connected notifier clients. The engine
// does not retry failures here; a failed insert surfaces as an error and is
// logged by the caller.
type postgresPublisher struct {
	db  *sql.DB
	hub *Hub
}

func newPostgresPublisher(db *sql.DB, hub *Hub) *postgresPublisher {
	return &postgresPublisher{db: db, hub: hub}
}

func (p *postgresPublisher) Publish(ctx context.Context, proposal *PairingProposal) error {
	err := withTx(ctx, p.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
            INSERT INTO pairings (id, user1_id, user2_id, status, mode, score_1_to_2, score_2_to_1, avg_score, created_at)
            VALUES ($1, $2, $3, 'PENDING', $4, $5, $6, $7, $8)
        `, proposal.ID, proposal.IDA, proposal.IDB, string(proposal.Mode),
			proposal.ScoreAB, proposal.ScoreBA, proposal.AvgScore, proposal.CreatedAt)
		if err != nil {
			return err
		}

		for _, slot := range proposal.Slots {
			_, err := tx.Exec(`
                INSERT INTO proposed_slots (pairing_id, meeting_date, start_time, end_time, timezone)
                VALUES ($1, $2, $3, $4, $5)
            `, proposal.ID, slot.Date, slot.StartTime, slot.EndTime, slot.Timezone)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if p.hub != nil {
		p.hub.broadcast(ServerEvent{Type: "pairing_created", Pairing: proposal})
	}
	log.Printf("publisher: pairing %s stored (%s + %s, avg %.3f)",
		proposal.ID, proposal.IDA, proposal.IDB, proposal.AvgScore)
	return nil
}
