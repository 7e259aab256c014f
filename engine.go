package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CandidateSource supplies the per-run snapshot for one locale. The engine
// makes exactly one call per run and never touches storage afterwards.
type CandidateSource interface {
	Snapshot(ctx context.Context, locale string) (*Snapshot, error)
}

// PairingPublisher receives each proposal the run produces. Persistence and
// member notification live behind this interface; failures there are logged
// and not retried.
type PairingPublisher interface {
	Publish(ctx context.Context, proposal *PairingProposal) error
}

// Engine is the batch matching pipeline: eligibility filter, bucket
// partitioning, pairwise scoring and greedy reciprocal assignment.
type Engine struct {
	cfg       MatchConfig
	source    CandidateSource
	publisher PairingPublisher
	now       func() time.Time
}

func NewEngine(cfg MatchConfig, source CandidateSource, publisher PairingPublisher) *Engine {
	return &Engine{
		cfg:       cfg,
		source:    source,
		publisher: publisher,
		now:       time.Now,
	}
}

// Run executes one matching run for a locale tag and returns every proposal
// produced. Runs for different locales may execute concurrently; their
// pools are disjoint by construction. A snapshot fetch failure aborts the
// whole run.
func (e *Engine) Run(ctx context.Context, locale string) ([]*PairingProposal, error) {
	started := e.now()
	log.Printf("matching: starting run for %s", locale)

	snap, err := e.source.Snapshot(ctx, locale)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates for %s: %w", locale, err)
	}

	eligible := filterEligible(snap, e.cfg)
	log.Printf("matching: %d of %d candidates eligible in %s", len(eligible), len(snap.Candidates), locale)
	if len(eligible) < 2 {
		log.Printf("matching: not enough candidates in %s", locale)
		return nil, nil
	}

	buckets := bucketCandidates(eligible)
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Scoring is read-only over the snapshot, so buckets score in
	// parallel. Assignment below stays single-threaded against one shared
	// matched set: a BOTH member can sit in two buckets at once.
	scored := make([][]scoredPair, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, candidates []*Candidate) {
			defer wg.Done()
			scored[i] = scoreBucket(e.cfg, candidates, snap.History, started)
		}(i, buckets[key])
	}
	wg.Wait()

	matched := make(map[string]bool)
	var proposals []*PairingProposal
	for i, key := range keys {
		accepted := assignBucket(e.cfg, scored[i], matched)

		mode := ModeOnline
		if bucketChannel(key) == channelInPerson {
			mode = ModeInPerson
		}
		for _, p := range accepted {
			proposal := &PairingProposal{
				ID:       uuid.NewString(),
				IDA:      p.a.ID,
				IDB:      p.b.ID,
				ScoreAB:  p.scoreAB,
				ScoreBA:  p.scoreBA,
				AvgScore: p.avgScore,
				Mode:     mode,
				Slots: proposeMeetingSlots(
					p.a.Availability, p.b.Availability, p.a.Timezone, started, e.cfg),
				CreatedAt: started,
			}
			proposals = append(proposals, proposal)

			if e.publisher != nil {
				if err := e.publisher.Publish(ctx, proposal); err != nil {
					log.Printf("matching: publish %s failed: %v", proposal.ID, err)
				}
			}
		}
		log.Printf("matching: bucket %s produced %d pairs from %d candidates", key, len(accepted), len(buckets[key]))
	}

	log.Printf("matching: run for %s done, %d pairs in %s", locale, len(proposals), time.Since(started))
	return proposals, nil
}
