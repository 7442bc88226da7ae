// Package scoring turns raw ranker output into calibrated 0..100 match
// scores with intent, vibe, location and keyword adjustments, plus category
// diversity enforcement over the final list.
package scoring

import (
	"hash/fnv"
	"math"
	"sort"
	"strconv"
)

const (
	percentileFloor   = 46
	percentileGamma   = 1.6
	percentileStretch = 1.6
)

// dynamicCeil bounds the match score by candidate-set size so a lone weak
// candidate cannot present as a top match.
func dynamicCeil(n int) int {
	switch {
	case n == 1:
		return 73
	case n == 2:
		return 76
	case n == 3:
		return 79
	case n <= 5:
		return 82
	case n <= 10:
		return 84
	case n <= 30:
		return 85
	case n <= 50:
		return 86
	default:
		return 87
	}
}

// midRankPercentiles computes the tie-averaged rank percentile of every raw
// score, with the edges pulled in by 0.5/n so no candidate lands on exactly
// 0 or 1.
func midRankPercentiles(raw []float64) []float64 {
	n := len(raw)
	sorted := append([]float64(nil), raw...)
	sort.Float64s(sorted)

	eps := 0.5 / float64(n)
	out := make([]float64, n)
	for i, x := range raw {
		lt := sort.SearchFloat64s(sorted, x)
		gt := sort.Search(len(sorted), func(j int) bool { return sorted[j] > x })
		eq := gt - lt
		p := (float64(lt) + 0.5*float64(eq)) / float64(n)
		if p < eps {
			p = eps
		}
		if p > 1-eps {
			p = 1 - eps
		}
		out[i] = p
	}
	return out
}

// idHash is the stable per-candidate hash behind the deterministic jitter
// and tie-break terms. FNV-1a over the decimal id keeps the perturbation
// independent of the id's arithmetic structure while staying reproducible.
func idHash(meetingID int64) uint64 {
	h := fnv.New64a()
	h.Write([]byte(strconv.FormatInt(meetingID, 10)))
	return h.Sum64()
}

// percentileJitter nudges a percentile using the candidate id and its
// position in the input list. The id term stays strictly below one position
// step (8e-5 max vs 1e-4), so candidates at distinct positions always get
// distinct jittered percentiles even when their raw scores tie.
func percentileJitter(meetingID int64, position int) float64 {
	return float64(idHash(meetingID)%9)*0.00001 + float64(position)*0.0001
}

// tieBreak is the final bounded (±~0.98) deterministic score perturbation.
func tieBreak(meetingID int64) float64 {
	return (float64(idHash(meetingID)%97) - 48) * 0.02
}

// stretchPercentile pushes a percentile away from 0.5 by a fixed factor,
// clamped back into [0,1].
func stretchPercentile(p float64) float64 {
	return clamp01(0.5 + (p-0.5)*percentileStretch)
}

// matchFromPercentile maps a percentile into [floor, ceil] with a gamma
// curve; gamma > 1 lifts the top percentiles harder than the middle.
func matchFromPercentile(p float64, floor, ceil int, gamma float64) float64 {
	p = clamp01(p)
	return float64(floor) + float64(ceil-floor)*math.Pow(p, 1/gamma)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
