package domain

// Tier is the coarse score bucket used for badge display.
type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// ResultMeta is derived display data for a score: badge label, tier
// and a short narrative. It is a pure function of the score and is
// never stored.
type ResultMeta struct {
	Badge          string `json:"badge"`
	Tier           Tier   `json:"tier"`
	Interpretation string `json:"interpretation"`
}

// Bucket is the analytics-facing score grouping.
type Bucket string

const (
	BucketLow  Bucket = "low"
	BucketMed  Bucket = "med"
	BucketHigh Bucket = "high"
)

// Classify maps a score in [0,10] to its badge, tier and narrative.
// Band lower bounds are inclusive: 4 is bronze, 5 and 7 are silver,
// 8 is gold. Callers clamp out-of-range input before calling.
func Classify(score int) ResultMeta {
	switch {
	case score <= 4:
		return ResultMeta{
			Badge:          "Nyfiken hundvän",
			Tier:           TierBronze,
			Interpretation: "Du är på god väg! Kolla igenom svaren nedan och lär dig något nytt inför nästa försök.",
		}
	case score <= 7:
		return ResultMeta{
			Badge:          "Skarp hundkännare",
			Tier:           TierSilver,
			Interpretation: "Bra koll! Du har stenkoll på grunderna. Se vilka frågor som lurade dig nedan.",
		}
	default:
		return ResultMeta{
			Badge:          "Hundexpert",
			Tier:           TierGold,
			Interpretation: "Imponerande! Du kan dina hundfakta. Utmana en kompis och se om de kan slå dig.",
		}
	}
}

// ScoreBucket groups a score for analytics events.
func ScoreBucket(score int) Bucket {
	switch {
	case score <= 4:
		return BucketLow
	case score <= 7:
		return BucketMed
	default:
		return BucketHigh
	}
}
