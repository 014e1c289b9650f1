package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/evolib/superrec"
	"github.com/evolib/superrec/newick"
	"github.com/evolib/superrec/recon"
)

// problemFile is the on-disk TOML schema of a solver instance.
//
// Example:
//
//	[trees]
//	object  = "(x_1,(y_1,z_1));"
//	species = "(X,(Y,Z));"
//
//	[syntenies]
//	x_1 = ["a", "b"]
//	y_1 = ["a"]
//	z_1 = ["a", "b"]
//
//	[costs]
//	duplication = 2.0
type problemFile struct {
	Trees struct {
		Object  string `toml:"object"`
		Species string `toml:"species"`
	} `toml:"trees"`

	// SpeciesMap assigns a species to each object leaf by name. Leaves
	// without an entry follow the prefix convention: x_1 belongs to
	// species X.
	SpeciesMap map[string]string `toml:"species_map"`

	// Syntenies holds the ordered gene content of each object leaf. Omit
	// the whole table for a plain reconciliation without contents.
	Syntenies map[string][]string `toml:"syntenies"`

	Costs costsFile `toml:"costs"`
}

// costsFile mirrors recon.CostVector with TOML names; absent keys keep
// their default weights.
type costsFile struct {
	Speciation    float64 `toml:"speciation"`
	Duplication   float64 `toml:"duplication"`
	Transfer      float64 `toml:"transfer"`
	FullLoss      float64 `toml:"loss"`
	SegmentalLoss float64 `toml:"segmental_loss"`
}

// loadProblem reads and parses a TOML problem file into a solver instance.
func loadProblem(path string) (superrec.Problem, error) {
	var p superrec.Problem

	raw, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	pf := problemFile{Costs: costsFile(recon.DefaultCosts())}
	if err := toml.Unmarshal(raw, &pf); err != nil {
		return p, fmt.Errorf("parse %s: %w", path, err)
	}

	object, err := newick.Parse(pf.Trees.Object)
	if err != nil {
		return p, fmt.Errorf("object tree: %w", err)
	}
	species, err := newick.Parse(pf.Trees.Species)
	if err != nil {
		return p, fmt.Errorf("species tree: %w", err)
	}

	leafSpecies := make(map[string]string)
	for _, v := range object.Leaves() {
		name := object.Name(v)
		if s, ok := pf.SpeciesMap[name]; ok {
			leafSpecies[name] = s
			continue
		}
		leafSpecies[name] = speciesOfLeafName(name)
	}

	p = superrec.Problem{
		Object:      object,
		Species:     species,
		LeafSpecies: leafSpecies,
		Contents:    pf.Syntenies,
		Costs:       recon.CostVector(pf.Costs),
	}
	return p, nil
}

// speciesOfLeafName applies the leaf naming convention x_1 → X.
func speciesOfLeafName(name string) string {
	if i := strings.LastIndex(name, "_"); i > 0 {
		return strings.ToUpper(name[:i])
	}
	return name
}
