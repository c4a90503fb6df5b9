package investment

import (
	"sort"

	"github.com/simaogato/fundwise-backend/internal/domain"
	"github.com/simaogato/fundwise-backend/internal/usecase/scoring"
)

// selection tracks the funds picked so far.
// Shares are provisional: every picked fund occupies an equal slot of 1/target.
type selection struct {
	target   int
	picked   map[int]bool // by rank index
	amcs     map[string]int
	category map[domain.Category]int
}

func newSelection(target int) *selection {
	return &selection{
		target:   target,
		picked:   make(map[int]bool),
		amcs:     make(map[string]int),
		category: make(map[domain.Category]int),
	}
}

func (s *selection) full() bool {
	return len(s.picked) >= s.target
}

func (s *selection) amcShare(f *domain.Fund) float64 {
	return float64(s.amcs[f.AMCName]) / float64(s.target)
}

func (s *selection) categoryShare(f *domain.Fund) float64 {
	return float64(s.category[f.Category]) / float64(s.target)
}

func (s *selection) add(i int, f *domain.Fund) {
	s.picked[i] = true
	s.amcs[f.AMCName]++
	s.category[f.Category]++
}

func (s *selection) remove(i int, f *domain.Fund) {
	delete(s.picked, i)
	s.amcs[f.AMCName]--
	if s.amcs[f.AMCName] == 0 {
		delete(s.amcs, f.AMCName)
	}
	s.category[f.Category]--
	if s.category[f.Category] == 0 {
		delete(s.category, f.Category)
	}
}

// selectDiversified picks funds down the ranked list under the diversification caps
// Logic:
//  1. Strict pass: skip a fund whose AMC or category already holds its cap
//  2. Second pass: category cap relaxed, AMC cap kept
//  3. Third pass: both caps relaxed, fill by rank
//  4. Spread repair: swap in funds that add a missing category or AMC
//
// Returns the picked funds in rank order and whether a relaxed pass added a fund.
func (s *InvestmentService) selectDiversified(ranked []scoring.Scored) ([]scoring.Scored, bool) {
	opts := s.Options
	target := min(opts.MaxFunds, len(ranked))
	sel := newSelection(target)

	pass := func(admit func(f *domain.Fund) bool) int {
		added := 0
		for i, c := range ranked {
			if sel.full() {
				break
			}
			if sel.picked[i] || !admit(c.Fund) {
				continue
			}
			sel.add(i, c.Fund)
			added++
		}
		return added
	}

	pass(func(f *domain.Fund) bool {
		return sel.amcShare(f) < opts.AMCCap && sel.categoryShare(f) < opts.CategoryCap
	})
	relaxed := pass(func(f *domain.Fund) bool {
		return sel.amcShare(f) < opts.AMCCap
	})
	relaxed += pass(func(f *domain.Fund) bool { return true })

	repairSpread(ranked, sel, opts)

	indexes := make([]int, 0, len(sel.picked))
	for i := range sel.picked {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := make([]scoring.Scored, len(indexes))
	for k, i := range indexes {
		out[k] = ranked[i]
	}
	return out, relaxed > 0
}

// repairSpread swaps low-ranked picks for funds that add a missing category or AMC,
// until the minimum spread the pool allows is met.
// Every swap strictly grows distinct categories + distinct AMCs, so the loop terminates.
func repairSpread(ranked []scoring.Scored, sel *selection, opts Options) {
	poolAMCs := make(map[string]bool)
	poolCategories := make(map[domain.Category]bool)
	for _, c := range ranked {
		poolAMCs[c.Fund.AMCName] = true
		poolCategories[c.Fund.Category] = true
	}
	needCategories := min(opts.MinCategories, len(poolCategories))
	needAMCs := min(opts.MinAMCs, len(poolAMCs), sel.target)

	for len(sel.category) < needCategories || len(sel.amcs) < needAMCs {
		if !swapOnce(ranked, sel, needCategories, needAMCs) {
			return
		}
	}
}

// swapOnce performs the best-ranked improving swap, reporting whether one was found
func swapOnce(ranked []scoring.Scored, sel *selection, needCategories, needAMCs int) bool {
	shortCategories := len(sel.category) < needCategories
	shortAMCs := len(sel.amcs) < needAMCs

	for in, candidate := range ranked {
		if sel.picked[in] {
			continue
		}
		f := candidate.Fund
		addsCategory := shortCategories && sel.category[f.Category] == 0
		addsAMC := shortAMCs && sel.amcs[f.AMCName] == 0
		if !addsCategory && !addsAMC {
			continue
		}

		// lowest-ranked pick whose removal does not lose coverage
		for out := len(ranked) - 1; out >= 0; out-- {
			if !sel.picked[out] {
				continue
			}
			beforeCategories, beforeAMCs := len(sel.category), len(sel.amcs)
			sel.remove(out, ranked[out].Fund)
			sel.add(in, f)
			if len(sel.category) >= beforeCategories && len(sel.amcs) >= beforeAMCs &&
				len(sel.category)+len(sel.amcs) > beforeCategories+beforeAMCs {
				return true
			}
			sel.remove(in, f)
			sel.add(out, ranked[out].Fund)
		}
	}
	return false
}
