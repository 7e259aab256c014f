package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	snap *Snapshot
	err  error
}

func (f *fakeSource) Snapshot(ctx context.Context, locale string) (*Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

type fakePublisher struct {
	published []*PairingProposal
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, p *PairingProposal) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, p)
	return nil
}

func newTestEngine(snap *Snapshot, pub PairingPublisher) *Engine {
	e := NewEngine(defaultMatchConfig(), &fakeSource{snap: snap}, pub)
	e.now = func() time.Time { return time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC) }
	return e
}

func TestEngineRun(t *testing.T) {
	// Two near-identical pairs; everyone shares availability so proposals
	// carry slots.
	snap := testSnapshot("UTC",
		testCandidate("a"),
		testCandidate("b"),
		testCandidate("c", func(c *Candidate) { c.Topics = []string{"Gardening"}; c.Industries = []string{"Media"} }),
		testCandidate("d", func(c *Candidate) { c.Topics = []string{"Gardening"}; c.Industries = []string{"Media"} }),
	)
	pub := &fakePublisher{}
	engine := newTestEngine(snap, pub)

	proposals, err := engine.Run(context.Background(), "UTC")
	require.NoError(t, err)
	require.Len(t, proposals, 2)

	seen := make(map[string]bool)
	for _, p := range proposals {
		assert.NotEmpty(t, p.ID)
		assert.NotEqual(t, p.IDA, p.IDB)
		assert.False(t, seen[p.IDA], "candidate %s in two proposals", p.IDA)
		assert.False(t, seen[p.IDB], "candidate %s in two proposals", p.IDB)
		seen[p.IDA] = true
		seen[p.IDB] = true

		assert.Equal(t, ModeOnline, p.Mode)
		assert.InDelta(t, (p.ScoreAB+p.ScoreBA)/2, p.AvgScore, 1e-9)
		require.NotEmpty(t, p.Slots)
		assert.Equal(t, "2026-01-12", p.Slots[0].Date, "next Monday after the run date")
		assert.Equal(t, "UTC", p.Slots[0].Timezone)
	}

	// The like-minded pairs beat the cross pairs.
	assert.Equal(t, "a", proposals[0].IDA)
	assert.Equal(t, "b", proposals[0].IDB)
	assert.Equal(t, "c", proposals[1].IDA)
	assert.Equal(t, "d", proposals[1].IDB)

	assert.Equal(t, proposals, pub.published)
}

func TestEngineRunSourceError(t *testing.T) {
	engine := NewEngine(defaultMatchConfig(), &fakeSource{err: errors.New("db down")}, nil)
	proposals, err := engine.Run(context.Background(), "UTC")
	assert.Nil(t, proposals)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestEngineRunTooFewCandidates(t *testing.T) {
	engine := newTestEngine(testSnapshot("UTC", testCandidate("a")), nil)
	proposals, err := engine.Run(context.Background(), "UTC")
	require.NoError(t, err)
	assert.Empty(t, proposals)
}

func TestEngineRunCooldown(t *testing.T) {
	snap := testSnapshot("UTC", testCandidate("a"), testCandidate("b"))
	snap.History = []PastPairing{
		{IDA: "a", IDB: "b", CreatedAt: time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)},
	}
	engine := newTestEngine(snap, nil)

	proposals, err := engine.Run(context.Background(), "UTC")
	require.NoError(t, err)
	assert.Empty(t, proposals, "recently paired members must not re-match")
}

func TestEngineRunBothModeMatchedOnce(t *testing.T) {
	// Both members sit in the online bucket and the in-person bucket;
	// they must pair exactly once.
	snap := testSnapshot("UTC",
		testCandidate("a", func(c *Candidate) { c.Mode = ModeBoth; c.City = nycCity() }),
		testCandidate("b", func(c *Candidate) { c.Mode = ModeBoth; c.City = midtownCity() }),
	)
	engine := newTestEngine(snap, nil)

	proposals, err := engine.Run(context.Background(), "UTC")
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, "a", proposals[0].IDA)
	assert.Equal(t, "b", proposals[0].IDB)
	assert.Equal(t, ModeInPerson, proposals[0].Mode, "in_person sorts before online")
}

func TestEngineRunInPersonMode(t *testing.T) {
	snap := testSnapshot("UTC",
		testCandidate("a", func(c *Candidate) { c.Mode = ModeInPerson; c.City = nycCity() }),
		testCandidate("b", func(c *Candidate) { c.Mode = ModeInPerson; c.City = midtownCity() }),
	)
	engine := newTestEngine(snap, nil)

	proposals, err := engine.Run(context.Background(), "UTC")
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, ModeInPerson, proposals[0].Mode)
}

func TestEngineRunDeterministic(t *testing.T) {
	build := func() *Snapshot {
		return testSnapshot("UTC",
			testCandidate("a"),
			testCandidate("b"),
			testCandidate("c"),
			testCandidate("d"),
			testCandidate("e", func(c *Candidate) { c.Vibe = VibeCasual }),
		)
	}

	run := func() [][2]string {
		proposals, err := newTestEngine(build(), nil).Run(context.Background(), "UTC")
		require.NoError(t, err)
		var pairs [][2]string
		for _, p := range proposals {
			pairs = append(pairs, [2]string{p.IDA, p.IDB})
		}
		return pairs
	}

	assert.Equal(t, run(), run())
}

func TestEngineRunPublisherFailureDoesNotAbort(t *testing.T) {
	snap := testSnapshot("UTC", testCandidate("a"), testCandidate("b"))
	engine := newTestEngine(snap, &fakePublisher{err: errors.New("insert failed")})

	proposals, err := engine.Run(context.Background(), "UTC")
	require.NoError(t, err)
	assert.Len(t, proposals, 1)
}

func TestEngineRunIneligibleFiltered(t *testing.T) {
	snap := testSnapshot("UTC", testCandidate("a"), testCandidate("b"), testCandidate("c"))
	snap.Facts["b"] = EligibilityFacts{Onboarded: true, WeeklyPairings: 1}
	engine := newTestEngine(snap, nil)

	proposals, err := engine.Run(context.Background(), "UTC")
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, "a", proposals[0].IDA)
	assert.Equal(t, "c", proposals[0].IDB)
}
