package extract

import (
	"strconv"
	"sync"
)

// Arbitrator runs every registered strategy over the same lines and
// picks the winner by score. Selection is deterministic: the strictly
// highest total score wins, ties go to the strategy registered first,
// and a strategy with zero entries never beats one with entries.
type Arbitrator struct {
	strategies []Strategy
	scorer     *Scorer
	sink       TraceSink
}

// NewArbitrator builds an Arbitrator. Strategy order is significant.
func NewArbitrator(strategies []Strategy, scorer *Scorer, sink TraceSink) *Arbitrator {
	if sink == nil {
		sink = NopSink{}
	}
	return &Arbitrator{strategies: strategies, scorer: scorer, sink: sink}
}

// Run executes all strategies concurrently and returns the winning
// result. Each strategy sees its own copy of nothing shared: strategies
// only read lines, so the slice is passed as-is.
func (a *Arbitrator) Run(lines []string) StrategyResult {
	results := make([]StrategyResult, len(a.strategies))
	var wg sync.WaitGroup
	for i, st := range a.strategies {
		wg.Add(1)
		go func(i int, st Strategy) {
			defer wg.Done()
			entries := st.Parse(lines)
			results[i] = StrategyResult{
				Strategy: st.Name(),
				Entries:  entries,
				Score:    a.scorer.ScoreEntries(entries),
			}
		}(i, st)
	}
	wg.Wait()

	best := StrategyResult{Strategy: "none"}
	for _, r := range results {
		a.sink.Record(Event{Name: "strategy_result", Fields: map[string]string{
			"strategy": r.Strategy,
			"entries":  strconv.Itoa(len(r.Entries)),
			"score":    strconv.Itoa(r.Score),
		}})
		if better(r, best) {
			best = r
		}
	}
	a.sink.Record(Event{Name: "strategy_selected", Fields: map[string]string{
		"strategy": best.Strategy,
		"entries":  strconv.Itoa(len(best.Entries)),
		"score":    strconv.Itoa(best.Score),
	}})
	return best
}

func better(r, cur StrategyResult) bool {
	if (len(r.Entries) > 0) != (len(cur.Entries) > 0) {
		return len(r.Entries) > 0
	}
	return r.Score > cur.Score
}
