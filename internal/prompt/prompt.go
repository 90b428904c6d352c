// Package prompt turns the user's request into a generation request for the
// weekly menu planner.
package prompt

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// DefaultCount is the number of menus produced when the user names none.
const DefaultCount = 3

var countPattern = regexp.MustCompile(`\b(\d+)\b`)

// DesiredCount returns the first standalone number in text, or DefaultCount
// when there is none. The result is at least 1. A positive maxCount caps it,
// and numbers too large for int become maxCount (or math.MaxInt without one).
func DesiredCount(text string, maxCount int) int {
	m := countPattern.FindStringSubmatch(text)
	if m == nil {
		return capCount(DefaultCount, maxCount)
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		if maxCount > 0 {
			return maxCount
		}
		return math.MaxInt
	}
	if n < 1 {
		n = 1
	}
	return capCount(n, maxCount)
}

func capCount(n, maxCount int) int {
	if maxCount > 0 && n > maxCount {
		return maxCount
	}
	return n
}

// Request is one generation request.
type Request struct {
	SystemInstruction string
	UserContent       string
	DesiredCount      int
}

// Builder assembles requests for a fixed household.
type Builder struct {
	household    string
	offersURL    string
	defaultCount int
	maxCount     int
}

// NewBuilder creates a Builder. A non-positive defaultCount falls back to
// DefaultCount; a non-positive maxCount disables the ceiling.
func NewBuilder(household, offersURL string, defaultCount, maxCount int) *Builder {
	if defaultCount < 1 {
		defaultCount = DefaultCount
	}
	return &Builder{
		household:    household,
		offersURL:    offersURL,
		defaultCount: defaultCount,
		maxCount:     maxCount,
	}
}

// Count applies the count rule with the builder's default and ceiling.
func (b *Builder) Count(text string) int {
	if !countPattern.MatchString(text) {
		return capCount(b.defaultCount, b.maxCount)
	}
	return DesiredCount(text, b.maxCount)
}

// Build returns the request for the user's text. The text is passed through
// unchanged as the user content.
func (b *Builder) Build(text string) Request {
	count := b.Count(text)
	return Request{
		SystemInstruction: fmt.Sprintf(SystemInstruction, b.offersURL, count, b.household, count),
		UserContent:       text,
		DesiredCount:      count,
	}
}
