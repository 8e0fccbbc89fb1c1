// Package catalog holds the careers and challenge definitions a player can
// work through. A catalog is loaded once, validated as a whole, and is
// read-only afterwards.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/careerquest/internal/scoring"
)

var (
	// ErrUnknownChallenge is returned when a challenge id is not in the catalog.
	ErrUnknownChallenge = errors.New("unknown challenge")

	// ErrUnknownCareer is returned when a career id is not in the catalog.
	ErrUnknownCareer = errors.New("unknown career")
)

// ChallengeDefinition is the static description of one challenge.
type ChallengeDefinition struct {
	ID          string
	CareerID    string
	Title       string
	Description string
	Order       int
	MaxScore    int
	Archetype   scoring.Archetype
	TimeLimit   time.Duration // zero means untimed
	Config      scoring.Config
}

// Timed reports whether the challenge runs against a countdown.
func (d ChallengeDefinition) Timed() bool { return d.TimeLimit > 0 }

// Career is a track of challenges, ordered by ChallengeDefinition.Order.
type Career struct {
	ID          string
	Name        string
	Description string
	Challenges  []ChallengeDefinition
}

// ChallengeIDs returns the career's challenge ids in play order.
func (c Career) ChallengeIDs() []string {
	ids := make([]string, len(c.Challenges))
	for i, ch := range c.Challenges {
		ids[i] = ch.ID
	}
	return ids
}

// Catalog is an immutable, validated set of careers.
type Catalog struct {
	version     string
	careers     []Career
	careerIdx   map[string]int
	challengeBy map[string]ChallengeDefinition
}

func newCatalog(version string, careers []Career) *Catalog {
	c := &Catalog{
		version:     version,
		careers:     careers,
		careerIdx:   make(map[string]int, len(careers)),
		challengeBy: make(map[string]ChallengeDefinition),
	}
	for i := range c.careers {
		career := &c.careers[i]
		slices.SortFunc(career.Challenges, func(a, b ChallengeDefinition) int {
			return a.Order - b.Order
		})
		c.careerIdx[career.ID] = i
		for _, ch := range career.Challenges {
			c.challengeBy[ch.ID] = ch
		}
	}
	return c
}

// Version returns the catalog's semantic version.
func (c *Catalog) Version() string { return c.version }

// Careers returns every career in catalog order.
func (c *Catalog) Careers() []Career {
	return slices.Clone(c.careers)
}

// Career returns the career with the given id.
func (c *Catalog) Career(id string) (Career, error) {
	i, ok := c.careerIdx[id]
	if !ok {
		return Career{}, fmt.Errorf("%w: %q", ErrUnknownCareer, id)
	}
	return c.careers[i], nil
}

// Challenge returns the challenge definition with the given id.
func (c *Catalog) Challenge(id string) (ChallengeDefinition, error) {
	ch, ok := c.challengeBy[id]
	if !ok {
		return ChallengeDefinition{}, fmt.Errorf("%w: %q", ErrUnknownChallenge, id)
	}
	return ch, nil
}

// ListChallengeDefinitions returns the career's challenges ordered by Order.
// The context is accepted so the catalog satisfies storage-style interfaces;
// lookups never block.
func (c *Catalog) ListChallengeDefinitions(_ context.Context, careerID string) ([]ChallengeDefinition, error) {
	career, err := c.Career(careerID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(career.Challenges), nil
}

// NumChallenges returns the total number of challenges across all careers.
func (c *Catalog) NumChallenges() int {
	return len(c.challengeBy)
}
