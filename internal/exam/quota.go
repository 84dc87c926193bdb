package exam

import "math"

// WeightedBucket names one partition of a quota split with its percentage
// weight. Order matters: the last bucket absorbs the rounding remainder.
type WeightedBucket struct {
	Name   string
	Weight int
}

type Allocation struct {
	Name  string
	Quota int
}

// ValidateWeights checks that bucket weights are non-negative and sum to
// exactly 100.
func ValidateWeights(buckets []WeightedBucket) error {
	if len(buckets) == 0 {
		return errBadWeights("no buckets given")
	}
	sum := 0
	for _, b := range buckets {
		if b.Weight < 0 {
			return errBadWeights("bucket %q has negative weight %d", b.Name, b.Weight)
		}
		sum += b.Weight
	}
	if sum != 100 {
		return errBadWeights("bucket weights sum to %d, want 100", sum)
	}
	return nil
}

// AllocateQuota splits target into integer quotas, one per bucket, summing
// exactly to target. Every bucket except the last gets round(target*w/100);
// the last receives whatever remains, so rounding error lands on the bucket
// iterated last. Caller controls bucket order.
func AllocateQuota(target int, buckets []WeightedBucket) ([]Allocation, error) {
	if target < 0 {
		return nil, &ValidationError{Code: CodeBadTarget, Message: "target must be non-negative"}
	}
	if err := ValidateWeights(buckets); err != nil {
		return nil, err
	}
	out := make([]Allocation, len(buckets))
	consumed := 0
	for i, b := range buckets {
		var q int
		if i == len(buckets)-1 {
			q = target - consumed
		} else {
			q = int(math.Round(float64(target) * float64(b.Weight) / 100.0))
			if consumed+q > target {
				q = target - consumed
			}
		}
		out[i] = Allocation{Name: b.Name, Quota: q}
		consumed += q
	}
	return out, nil
}

// DifficultyBuckets produces a deterministic bucket ordering from a
// difficulty quota spec: easy, moderate, hard. Hard is iterated last and so
// absorbs the remainder.
func DifficultyBuckets(spec map[Difficulty]int) []WeightedBucket {
	order := []Difficulty{DifficultyEasy, DifficultyModerate, DifficultyHard}
	out := make([]WeightedBucket, 0, len(order))
	for _, d := range order {
		if w, ok := spec[d]; ok {
			out = append(out, WeightedBucket{Name: string(d), Weight: w})
		}
	}
	return out
}
