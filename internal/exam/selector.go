package exam

import (
	"math/rand"
	"time"
)

// ShortfallPolicy is an explicit parameter: call sites choose how a deficit
// is handled instead of relying on an implicit engine default.
type ShortfallPolicy int

const (
	// PartialFill accepts whatever the pool yields and reports shortfalls
	// alongside the selection.
	PartialFill ShortfallPolicy = iota
	// AbortOnShortfall returns a ShortfallError covering every deficient
	// bucket and no selection.
	AbortOnShortfall
)

// BudgetMode controls what a bucket quota counts: question points or items.
type BudgetMode int

const (
	BudgetPoints BudgetMode = iota
	BudgetItems
)

// BucketPool is one bucket's candidate pool with its allocated quota.
type BucketPool struct {
	Name      string
	Quota     int
	Questions []Question
}

// MinDistractors is the smallest incorrect-choice count a question needs to
// be presentable.
const MinDistractors = 2

type Selector struct {
	Mode   BudgetMode
	Policy ShortfallPolicy
	rng    *rand.Rand
}

func NewSelector(mode BudgetMode, policy ShortfallPolicy) *Selector {
	return &Selector{
		Mode:   mode,
		Policy: policy,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// newSelectorSeeded exists for deterministic tests only.
func newSelectorSeeded(mode BudgetMode, policy ShortfallPolicy, seed int64) *Selector {
	return &Selector{Mode: mode, Policy: policy, rng: rand.New(rand.NewSource(seed))}
}

func (s *Selector) cost(q Question) int {
	if s.Mode == BudgetItems {
		return 1
	}
	return q.Points
}

// Eligible reports whether a question can be presented: exactly one correct
// choice and at least MinDistractors incorrect ones.
func Eligible(q Question) bool {
	correct, wrong := 0, 0
	for _, c := range q.Choices {
		if c.Correct {
			correct++
		} else {
			wrong++
		}
	}
	return correct == 1 && wrong >= MinDistractors
}

// Select fills each bucket from its pool under the bucket's quota. Pools are
// shuffled for fairness; the scan skips (not stops at) candidates that would
// overflow the remaining quota, since smaller candidates later in the order
// may still fit. The used set dedupes question ids across buckets; Select
// extends it with every accepted id.
//
// Under AbortOnShortfall any deficit yields a ShortfallError covering all
// deficient buckets; under PartialFill the partial selection is returned
// together with the shortfall records.
func (s *Selector) Select(buckets []BucketPool, used map[string]bool) ([]Question, []Shortfall, error) {
	if used == nil {
		used = make(map[string]bool)
	}
	var selected []Question
	var shortfalls []Shortfall

	for _, b := range buckets {
		pool := make([]Question, 0, len(b.Questions))
		for _, q := range b.Questions {
			if !used[q.ID] && Eligible(q) {
				pool = append(pool, q)
			}
		}
		s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

		accumulated := 0
		available := 0
		for _, q := range pool {
			available += s.cost(q)
		}
		for _, q := range pool {
			if accumulated >= b.Quota {
				break
			}
			c := s.cost(q)
			if accumulated+c > b.Quota {
				continue
			}
			selected = append(selected, q)
			used[q.ID] = true
			accumulated += c
		}
		if accumulated < b.Quota {
			shortfalls = append(shortfalls, Shortfall{
				Bucket:    b.Name,
				Required:  b.Quota,
				Available: available,
				Deficit:   b.Quota - accumulated,
			})
		}
	}

	if len(shortfalls) > 0 && s.Policy == AbortOnShortfall {
		return nil, shortfalls, &ShortfallError{Shortfalls: shortfalls}
	}
	return selected, shortfalls, nil
}
