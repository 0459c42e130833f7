package domain

import "testing"

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		score int
		tier  Tier
	}{
		{0, TierBronze},
		{4, TierBronze},
		{5, TierSilver},
		{7, TierSilver},
		{8, TierGold},
		{10, TierGold},
	}
	for _, tc := range cases {
		meta := Classify(tc.score)
		if meta.Tier != tc.tier {
			t.Fatalf("score %d: expected tier %s, got %s", tc.score, tc.tier, meta.Tier)
		}
		if meta.Badge == "" || meta.Interpretation == "" {
			t.Fatalf("score %d: incomplete meta %+v", tc.score, meta)
		}
	}
}

func TestClassifyTierNonDecreasing(t *testing.T) {
	rank := map[Tier]int{TierBronze: 0, TierSilver: 1, TierGold: 2}
	previous := -1
	for score := 0; score <= MaxScore; score++ {
		current := rank[Classify(score).Tier]
		if current < previous {
			t.Fatalf("tier decreased at score %d", score)
		}
		previous = current
	}
}

func TestScoreBucket(t *testing.T) {
	cases := []struct {
		score  int
		bucket Bucket
	}{
		{0, BucketLow},
		{4, BucketLow},
		{5, BucketMed},
		{7, BucketMed},
		{8, BucketHigh},
		{10, BucketHigh},
	}
	for _, tc := range cases {
		if got := ScoreBucket(tc.score); got != tc.bucket {
			t.Fatalf("score %d: expected bucket %s, got %s", tc.score, tc.bucket, got)
		}
	}
}
