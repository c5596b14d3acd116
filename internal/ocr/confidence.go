package ocr

import (
	"regexp"
	"strings"
)

var (
	reCurr     = regexp.MustCompile(`\b(usd|eur|gbp|cad|aud|inr|jpy)\b|[$£€]`)
	reAmount   = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d{2})\b|\b\d+\.\d{2}\b`)
	reQtyUnit  = regexp.MustCompile(`(?i)\b\d+\s*(pcs?|pieces?|units?|items?|ea|kg|lbs?|meters?|m|cm|mm)\b|\bqty\b|\bquantity\b`)
	rePartLike = regexp.MustCompile(`\b[A-Z]{2,}-?\d+[A-Z0-9]*\b|\b\d+-[A-Z]+\b`)
)

// HeuristicConfidence scores text by how much it looks like a quote or parts list.
func HeuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if reCurr.MatchString(txtL) {
		score += 0.15
	}
	if reAmount.MatchString(txtL) {
		score += 0.15
	}
	if reQtyUnit.MatchString(txt) {
		score += 0.2
	}
	if rePartLike.MatchString(txt) {
		score += 0.2
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// BlendConfidence weighs an engine-reported word confidence over the heuristic.
func BlendConfidence(engineConf, heurConf float32) float32 {
	conf := heurConf
	if engineConf > 0 {
		conf = 0.7*engineConf + 0.3*heurConf
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
