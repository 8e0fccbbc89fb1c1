package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/careerquest/internal/scoring"
)

// SupportedMajor is the catalog format major version this build reads.
const SupportedMajor = "v1"

//go:embed default_catalog.yaml
var defaultCatalog []byte

type fileCatalog struct {
	Version string       `yaml:"version"`
	Careers []fileCareer `yaml:"careers"`
}

type fileCareer struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Challenges  []fileChallenge `yaml:"challenges"`
}

type fileChallenge struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Order       int            `yaml:"order"`
	MaxScore    int            `yaml:"max_score"`
	Archetype   string         `yaml:"archetype"`
	TimeLimit   time.Duration  `yaml:"time_limit"`
	Config      map[string]any `yaml:"config"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads and validates a catalog file. An empty path loads the default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML catalog data. Every problem found is
// reported in the returned error, not only the first.
func Parse(data []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch {
	case fc.Version == "":
		fail("version is required")
	case !semver.IsValid(fc.Version):
		fail("version %q is not a valid semantic version", fc.Version)
	case semver.Major(fc.Version) != SupportedMajor:
		fail("version %s is not supported (want %s.x)", fc.Version, SupportedMajor)
	}

	careerIDs := make(map[string]bool)
	challengeIDs := make(map[string]string)
	careers := make([]Career, 0, len(fc.Careers))

	for i, fcar := range fc.Careers {
		where := fmt.Sprintf("careers[%d]", i)
		if fcar.ID == "" {
			fail("%s: id is required", where)
		} else {
			where = fmt.Sprintf("career %q", fcar.ID)
			if careerIDs[fcar.ID] {
				fail("%s: duplicate career id", where)
			}
			careerIDs[fcar.ID] = true
		}

		career := Career{
			ID:          fcar.ID,
			Name:        fcar.Name,
			Description: fcar.Description,
		}
		if career.Name == "" {
			career.Name = career.ID
		}

		orders := make(map[int]string)
		for j, fch := range fcar.Challenges {
			chWhere := fmt.Sprintf("%s: challenges[%d]", where, j)
			if fch.ID == "" {
				fail("%s: id is required", chWhere)
				continue
			}
			chWhere = fmt.Sprintf("%s: challenge %q", where, fch.ID)
			if owner, dup := challengeIDs[fch.ID]; dup {
				fail("%s: duplicate challenge id (already in career %q)", chWhere, owner)
			}
			challengeIDs[fch.ID] = fcar.ID

			if other, dup := orders[fch.Order]; dup {
				fail("%s: order %d already used by %q", chWhere, fch.Order, other)
			}
			orders[fch.Order] = fch.ID

			def, chErrs := buildChallenge(fcar.ID, fch)
			for _, e := range chErrs {
				fail("%s: %w", chWhere, e)
			}
			if len(chErrs) == 0 {
				career.Challenges = append(career.Challenges, def)
			}
		}
		careers = append(careers, career)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return newCatalog(fc.Version, careers), nil
}

func buildChallenge(careerID string, fch fileChallenge) (ChallengeDefinition, []error) {
	var errs []error

	maxScore := fch.MaxScore
	if maxScore == 0 {
		maxScore = scoring.MaxScore
	}
	if maxScore < 0 || maxScore > scoring.MaxScore {
		errs = append(errs, fmt.Errorf("max_score %d out of range (0, %d]", fch.MaxScore, scoring.MaxScore))
	}
	if fch.TimeLimit < 0 {
		errs = append(errs, errors.New("time_limit must not be negative"))
	}

	a := scoring.Archetype(fch.Archetype)
	if !a.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", scoring.ErrUnknownArchetype, fch.Archetype))
		return ChallengeDefinition{}, errs
	}

	raw, err := json.Marshal(fch.Config)
	if err != nil {
		errs = append(errs, fmt.Errorf("encode config: %w", err))
		return ChallengeDefinition{}, errs
	}
	if fch.Config == nil {
		raw = []byte("{}")
	}
	if err := validateConfig(a, raw); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
		return ChallengeDefinition{}, errs
	}
	cfg, err := scoring.DecodeConfig(a, raw)
	if err != nil {
		errs = append(errs, err)
		return ChallengeDefinition{}, errs
	}

	title := fch.Title
	if title == "" {
		title = fch.ID
	}
	return ChallengeDefinition{
		ID:          fch.ID,
		CareerID:    careerID,
		Title:       title,
		Description: fch.Description,
		Order:       fch.Order,
		MaxScore:    maxScore,
		Archetype:   a,
		TimeLimit:   fch.TimeLimit,
		Config:      cfg,
	}, errs
}
