package agents

import "strings"

// Ratings emitted by the agents. The advisor tallies the directional
// ones; risk and news use their own scales.
const (
	RatingStrongBuy  = "Strong Buy"
	RatingBuy        = "Buy"
	RatingHold       = "Hold"
	RatingSell       = "Sell"
	RatingStrongSell = "Strong Sell"

	RatingPositive = "Positive"
	RatingNeutral  = "Neutral"
	RatingNegative = "Negative"

	RatingLowRisk  = "Low Risk"
	RatingModerate = "Moderate"
	RatingHighRisk = "High Risk"

	RatingInformational    = "Informational"
	RatingHighActivity     = "High Activity"
	RatingModerateActivity = "Moderate Activity"
	RatingNA               = "N/A"

	RatingBullish = "Bullish"
	RatingBearish = "Bearish"
)

// RatingFromNarrative upgrades a rule-based rating when the narrative
// explicitly names an extreme verdict. This substring sniff is the
// only place narrative text influences a rating.
func RatingFromNarrative(narrative, fallback string) string {
	if strings.Contains(narrative, RatingStrongBuy) {
		return RatingStrongBuy
	}
	if strings.Contains(narrative, RatingStrongSell) {
		return RatingStrongSell
	}
	return fallback
}

// Tally counts directional votes across agent ratings. Buy votes come
// from Strong Buy, Buy and Positive; sell votes from Sell and Strong
// Sell. Everything else abstains.
func Tally(ratings []string) (buyVotes, sellVotes int) {
	for _, r := range ratings {
		switch r {
		case RatingStrongBuy, RatingBuy, RatingPositive:
			buyVotes++
		case RatingSell, RatingStrongSell:
			sellVotes++
		}
	}
	return buyVotes, sellVotes
}

// Verdict applies the quorum rule: a direction wins only when it
// out-votes the other side AND has at least two votes.
func Verdict(buyVotes, sellVotes int) string {
	if buyVotes > sellVotes && buyVotes >= 2 {
		return RatingBullish
	}
	if sellVotes > buyVotes && sellVotes >= 2 {
		return RatingBearish
	}
	return RatingHold
}
