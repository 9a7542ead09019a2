package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Aspect ratios accepted by the downstream generation backend.
var supportedRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4", "3:2", "2:3", "21:9"}

var ratioPattern = regexp.MustCompile(`\b(\d{1,2}):(\d{1,2})\b`)

// ExtractRatio scans text for an aspect-ratio mention and snaps it to the
// closest supported ratio. Returns "" when no ratio is mentioned.
func ExtractRatio(text string) string {
	m := ratioPattern.FindStringSubmatch(text)
	if m == nil {
		return lexicalRatio(text)
	}

	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	if w == 0 || h == 0 {
		return ""
	}

	return closestRatio(float64(w) / float64(h))
}

// lexicalRatio recognizes common verbal ratio requests.
func lexicalRatio(text string) string {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "square"):
		return "1:1"
	case strings.Contains(lowered, "widescreen"), strings.Contains(lowered, "landscape"):
		return "16:9"
	case strings.Contains(lowered, "portrait"), strings.Contains(lowered, "vertical"):
		return "9:16"
	default:
		return ""
	}
}

func closestRatio(value float64) string {
	best := supportedRatios[0]
	bestDist := math.MaxFloat64

	for _, r := range supportedRatios {
		var w, h int
		fmt.Sscanf(r, "%d:%d", &w, &h)
		dist := math.Abs(value - float64(w)/float64(h))
		if dist < bestDist {
			bestDist = dist
			best = r
		}
	}

	return best
}

// SupportedRatio reports whether ratio is accepted by the generation backend.
func SupportedRatio(ratio string) bool {
	for _, r := range supportedRatios {
		if r == ratio {
			return true
		}
	}
	return false
}
