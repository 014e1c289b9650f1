package srec

import (
	"errors"
	"fmt"

	"github.com/evolib/superrec/recon"
	"github.com/evolib/superrec/synteny"
	"github.com/evolib/superrec/tree"
)

// ErrInfeasible is returned when no finite-cost super-reconciliation
// exists for the instance.
var ErrInfeasible = errors.New("srec: no finite-cost super-reconciliation")

// Input is a validated super-reconciliation instance: a reconciliation
// instance plus gene contents for every object leaf.
type Input struct {
	Rec *recon.Input

	// Contents maps object leaf names to their (ordered) gene contents.
	// An entry under the object root's name pins the root family order.
	Contents map[string][]string
}

// NewInput validates the instance.
//
// Errors: those of recon.NewInput, plus synteny.ErrMissingContent wrapped
// for leaves without contents.
func NewInput(object, species *tree.Tree, leafSpecies map[string]string,
	contents map[string][]string, costs recon.CostVector) (*Input, error) {

	rec, err := recon.NewInput(object, species, leafSpecies, costs)
	if err != nil {
		return nil, err
	}
	for _, v := range object.Leaves() {
		if _, ok := contents[object.Name(v)]; !ok {
			return nil, fmt.Errorf("%w: leaf %q", synteny.ErrMissingContent, object.Name(v))
		}
	}
	return &Input{Rec: rec, Contents: contents}, nil
}
