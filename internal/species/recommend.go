// Package species recommends native plantation species for a set of
// environmental factors via an ordered threshold tier table.
package species

import (
	"math"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Tier is one row of the recommendation table. A site qualifies for a tier
// when every factor is strictly greater than the tier's threshold; tiers
// are evaluated in order and the first match wins. Thresholds are strict so
// boundary values fall through to the next tier.
type Tier struct {
	Name       string   `yaml:"name"`
	Vegetation float64  `yaml:"vegetation"`
	Water      float64  `yaml:"water"`
	Soil       float64  `yaml:"soil"`
	Species    []string `yaml:"species"`
}

// DefaultTiers is the built-in table of Indian native species, stratified
// from demanding to drought-tolerant. The final tier has unbounded
// thresholds and acts as the catch-all.
func DefaultTiers() []Tier {
	return []Tier{
		{
			Name:       "excellent",
			Vegetation: 0.7, Water: 0.6, Soil: 0.7,
			Species: []string{
				"Neem (Azadirachta indica)", "Bamboo", "Peepal (Ficus religiosa)",
				"Banyan (Ficus benghalensis)", "Arjun (Terminalia arjuna)",
			},
		},
		{
			Name:       "good",
			Vegetation: 0.5, Water: 0.4, Soil: 0.5,
			Species: []string{
				"Babool (Acacia nilotica)", "Khejri (Prosopis cineraria)",
				"Ber (Ziziphus mauritiana)", "Amaltas (Cassia fistula)",
			},
		},
		{
			Name:       "moderate",
			Vegetation: 0.3, Water: 0.3, Soil: math.Inf(-1), // soil not considered at this tier
			Species: []string{
				"Babool", "Khejri", "Dhak (Butea monosperma)", "Khair (Acacia catechu)",
			},
		},
		{
			Name:       "hardy",
			Vegetation: math.Inf(-1), Water: math.Inf(-1), Soil: math.Inf(-1),
			Species:    []string{"Babool", "Khejri", "Date Palm"},
		},
	}
}

// Recommender maps factor triples to ordered species lists.
type Recommender struct {
	tiers []Tier
}

// New creates a Recommender from a tier table. An empty table falls back to
// the defaults.
func New(tiers []Tier) *Recommender {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	return &Recommender{tiers: tiers}
}

// Recommend returns the species list of the first tier whose thresholds the
// factors all strictly exceed. The table's catch-all tier guarantees a
// non-empty result for any real-valued input.
func (r *Recommender) Recommend(vegetation, water, soil float64) []string {
	for _, t := range r.tiers {
		if vegetation > t.Vegetation && water > t.Water && soil > t.Soil {
			return t.Species
		}
	}
	// Unreachable with a well-formed table; returned for safety when a
	// custom table omits a catch-all.
	last := r.tiers[len(r.tiers)-1]
	return last.Species
}

// TierName returns the name of the tier the factors qualify for.
func (r *Recommender) TierName(vegetation, water, soil float64) string {
	for _, t := range r.tiers {
		if vegetation > t.Vegetation && water > t.Water && soil > t.Soil {
			return t.Name
		}
	}
	return r.tiers[len(r.tiers)-1].Name
}

// LoadTiers reads a custom tier table from a YAML file. The file holds a
// list of tiers in evaluation order; every tier must name at least one
// species and the last tier should be a catch-all.
func LoadTiers(path string) ([]Tier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "species: read tier table %s", path)
	}

	var tiers []Tier
	if err := yaml.Unmarshal(data, &tiers); err != nil {
		return nil, eris.Wrapf(err, "species: parse tier table %s", path)
	}

	if len(tiers) == 0 {
		return nil, eris.Errorf("species: tier table %s is empty", path)
	}
	for i, t := range tiers {
		if len(t.Species) == 0 {
			return nil, eris.Errorf("species: tier %d (%s) has no species", i, t.Name)
		}
	}
	return tiers, nil
}
