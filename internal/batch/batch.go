package batch

import "fmt"

// Batch is an ordered, append-only sequence of Cases. Insertion order
// determines XFOIL invocation order. Once a run begins the batch is sealed:
// further Add calls fail with ErrBatchSealed. The one-way Built → Running
// transition is the mechanism behind the "runs cannot be reiterated" rule —
// correcting a case after the fact means building a new batch.
type Batch struct {
	cases  []Case
	keys   map[string]bool
	sealed bool
}

// New returns an empty, unsealed batch.
func New() *Batch {
	return &Batch{keys: make(map[string]bool)}
}

// Add validates c and appends it. On any validation failure the batch is
// left unchanged.
func (b *Batch) Add(c Case) error {
	if b.sealed {
		return ErrBatchSealed
	}
	if err := c.Validate(); err != nil {
		return err
	}
	k := c.key()
	if b.keys[k] {
		return fmt.Errorf("%w: duplicate case %s (artifact paths would collide)", ErrValidation, k)
	}
	b.keys[k] = true

	// Copy the alpha slice so later caller mutations cannot reach into an
	// already-appended case.
	c.Alphas = append([]float64(nil), c.Alphas...)
	b.cases = append(b.cases, c)
	return nil
}

// AddPolar appends a viscous alpha-sweep case. Re must be positive.
func (b *Batch) AddPolar(foil string, naca bool, re, mach float64, alphas []float64, iter int) error {
	return b.Add(Case{
		Foil: foil, NACA: naca,
		Viscous: true, Re: re, Mach: mach,
		Alphas: alphas, Iter: iter,
		SaveCp: true,
	})
}

// AddInviscidPolar appends an inviscid alpha-sweep case.
func (b *Batch) AddInviscidPolar(foil string, naca bool, mach float64, alphas []float64, iter int) error {
	return b.Add(Case{
		Foil: foil, NACA: naca,
		Mach:   mach,
		Alphas: alphas, Iter: iter,
		SaveCp: true,
	})
}

// AddSingleAlpha appends a viscous fixed-angle case.
func (b *Batch) AddSingleAlpha(foil string, naca bool, re, mach, alpha float64, iter int) error {
	return b.AddPolar(foil, naca, re, mach, []float64{alpha}, iter)
}

// Len returns the number of cases accumulated so far.
func (b *Batch) Len() int { return len(b.cases) }

// Empty reports whether the batch holds no cases.
func (b *Batch) Empty() bool { return len(b.cases) == 0 }

// Sealed reports whether a run has started on this batch.
func (b *Batch) Sealed() bool { return b.sealed }

// Cases returns a copy of the accumulated cases in insertion order.
func (b *Batch) Cases() []Case {
	return append([]Case(nil), b.cases...)
}

// Seal transitions the batch to Running and hands back the cases for
// execution. Idempotent; the pipeline calls it exactly once.
func (b *Batch) Seal() []Case {
	b.sealed = true
	return b.Cases()
}
