package application

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-condorcet/internal/domain"
	"github.com/ahrav/go-condorcet/internal/ports"
)

// pair is an ordered (winner, loser) candidate pair in the tally.
type pair struct {
	winner string
	loser  string
}

// RankedPairsAggregator combines many voters' preference DAGs into a
// single collective preference ordering using Nicolaus Tidemann's ranked
// pairs rule: lock in the strongest pairwise victories first, skipping
// any that would create a cycle.
type RankedPairsAggregator struct {
	// metrics is optional; nil disables instrumentation.
	metrics ports.MetricsCollector
	// parallelism bounds concurrent ballot tallying. Zero or negative
	// falls back to the CPU count.
	parallelism int
}

// NewRankedPairsAggregator creates an aggregator. The metrics collector
// may be nil.
func NewRankedPairsAggregator(metrics ports.MetricsCollector) *RankedPairsAggregator {
	return &RankedPairsAggregator{metrics: metrics}
}

// SetParallelism bounds the number of ballots tallied concurrently.
// Zero or a negative value restores the CPU-count default.
// SetParallelism must be called before RankedPairs.
func (rp *RankedPairsAggregator) SetParallelism(n int) { rp.parallelism = n }

// RankedPairs aggregates the ballots into one acyclic preference DAG
// whose edge weights are winning margins. O(n^2) distinct pairs per
// ballot in the dense case.
//
// Every (candidate, transitive strict descendant) pair in a ballot
// counts as one vote for that ordered pair; indifferences contribute
// nothing. Pairs are locked in by descending vote count, ties kept in
// first-discovery order (ballot order, then within-ballot node order);
// a pair whose insertion would close a cycle is skipped, never raised.
//
// Ballots are tallied concurrently, but per-ballot results merge
// deterministically in ballot order and the returned DAG is assembled
// by a single writer.
func (rp *RankedPairsAggregator) RankedPairs(ctx context.Context, ballots []*domain.PrefDAG) (result *domain.PrefDAG, err error) {
	tracer := otel.Tracer("ranked-pairs")
	ctx, span := tracer.Start(ctx, "RankedPairsAggregator.RankedPairs")
	defer span.End()
	span.SetAttributes(attribute.Int("ballots", len(ballots)))

	start := time.Now()
	defer func() {
		if rp.metrics == nil {
			return
		}
		status := "success"
		if err != nil {
			status = "error"
		}
		labels := map[string]string{"status": status}
		rp.metrics.RecordLatency("ranked_pairs", time.Since(start), labels)
		rp.metrics.RecordCounter("rank_aggregations_total", 1, labels)
	}()

	perBallot, err := rp.tally(ctx, ballots)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Merge in ballot order so tie-breaking by first-discovery order is
	// deterministic regardless of tallying concurrency.
	counts := make(map[pair]int)
	var order []pair
	for _, pairs := range perBallot {
		for _, p := range pairs {
			if _, seen := counts[p]; !seen {
				order = append(order, p)
			}
			counts[p]++
		}
	}

	// Descending vote count; the stable sort preserves discovery order
	// among equal counts.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	span.SetAttributes(attribute.Int("pairs", len(order)))

	result = domain.NewPrefDAG()
	skipped := 0
	for _, p := range order {
		if cerr := ctx.Err(); cerr != nil {
			span.RecordError(cerr)
			span.SetStatus(codes.Error, cerr.Error())
			return nil, cerr
		}

		addErr := result.AddGreater(p.winner, p.loser, float64(counts[p]))
		var coherence *domain.CoherenceError
		if errors.As(addErr, &coherence) {
			// The pair loses to stronger victories already locked in.
			skipped++
			continue
		}
		if addErr != nil {
			span.RecordError(addErr)
			span.SetStatus(codes.Error, addErr.Error())
			return nil, fmt.Errorf("ranked pairs: locking %s > %s: %w", p.winner, p.loser, addErr)
		}
	}

	span.SetAttributes(attribute.Int("skipped_pairs", skipped))
	if rp.metrics != nil {
		rp.metrics.RecordCounter("ranked_pairs_skipped_total", float64(skipped), nil)
		rp.metrics.RecordGauge("ranked_pairs_locked", float64(len(order)-skipped), nil)
	}
	return result, nil
}

// tally enumerates, per ballot, every ordered (candidate, transitive
// strict descendant) pair, running ballots concurrently under a
// semaphore-style limit. The outer slice is indexed by ballot so callers
// can merge deterministically.
func (rp *RankedPairsAggregator) tally(ctx context.Context, ballots []*domain.PrefDAG) ([][]pair, error) {
	limit := rp.parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	perBallot := make([][]pair, len(ballots))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, ballot := range ballots {
		i, ballot := i, ballot
		g.Go(func() error {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			var pairs []pair
			for _, candidate := range ballot.Nodes() {
				for _, loser := range ballot.StrictDescendants(candidate) {
					pairs = append(pairs, pair{winner: candidate, loser: loser})
				}
			}
			perBallot[i] = pairs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return perBallot, nil
}
