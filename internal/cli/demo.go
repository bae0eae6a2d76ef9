package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lazypower/atomspace/internal/atom"
	"github.com/lazypower/atomspace/internal/engine"
	"github.com/lazypower/atomspace/internal/errors"
	"github.com/lazypower/atomspace/internal/store"
)

var demoThreshold float64

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the cognitive reasoning walkthrough against a fresh space",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.OutOrStdout(), demoThreshold)
	},
}

func init() {
	demoCmd.Flags().Float64Var(&demoThreshold, "threshold", 0.8, "consolidation similarity threshold")
}

// demoBuilder accumulates the first creation error so the walkthrough reads
// top to bottom.
type demoBuilder struct {
	space *store.AtomSpace
	err   error
}

func (b *demoBuilder) node(t atom.Type, name string) atom.Handle {
	if b.err != nil {
		return atom.InvalidHandle
	}
	h, err := b.space.AddNode(t, name)
	b.err = err
	return h
}

func (b *demoBuilder) link(t atom.Type, out ...atom.Handle) atom.Handle {
	if b.err != nil {
		return atom.InvalidHandle
	}
	h, err := b.space.AddLink(t, out)
	b.err = err
	return h
}

func (b *demoBuilder) truth(h atom.Handle, strength, confidence float32) {
	if b.err != nil {
		return
	}
	b.err = b.space.SetTruthValue(h, atom.TruthValue{Strength: strength, Confidence: confidence})
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n=== %s ===\n", title)
}

func runDemo(w io.Writer, threshold float64) error {
	e := engine.New(store.New(), engine.DefaultBridgeSettings())
	defer e.Close()
	space := e.Space
	b := &demoBuilder{space: space}

	fmt.Fprintln(w, "AtomSpace cognitive reasoning demo")

	section(w, "Building Knowledge Base")
	cat := b.node(atom.ConceptNode, "Cat")
	dog := b.node(atom.ConceptNode, "Dog")
	animal := b.node(atom.ConceptNode, "Animal")
	mammal := b.node(atom.ConceptNode, "Mammal")
	hasFur := b.node(atom.PredicateNode, "HasFur")
	b.node(atom.PredicateNode, "WarmBlooded")
	b.truth(cat, 0.9, 0.9)
	b.truth(dog, 0.7, 0.6)
	b.truth(animal, 0.95, 0.3)
	b.truth(mammal, 0.2, 0.5)
	if b.err != nil {
		return errors.Wrap(b.err, "build nodes")
	}
	fmt.Fprintf(w, "Created %d concept and predicate nodes\n", space.NodeCount())

	section(w, "Creating Inheritance Links")
	catAnimal := b.link(atom.InheritanceLink, cat, animal)
	b.link(atom.InheritanceLink, dog, animal)
	b.link(atom.InheritanceLink, animal, mammal)
	fmt.Fprintln(w, "Created inheritance links: Cat->Animal, Dog->Animal, Animal->Mammal")

	section(w, "Creating Property Evaluations")
	furList := b.link(atom.ListLink, mammal, hasFur)
	furEval := b.link(atom.EvaluationLink, hasFur, furList)
	b.truth(furEval, 0.9, 0.8)
	fmt.Fprintln(w, "Created evaluation: Mammals have fur (strength=0.9, confidence=0.8)")

	section(w, "Creating Implication Rules")
	// Re-adding Cat->Animal returns the existing link.
	premise := b.link(atom.InheritanceLink, cat, animal)
	conclusion := b.link(atom.InheritanceLink, cat, mammal)
	b.link(atom.ImplicationLink, premise, conclusion)
	if b.err != nil {
		return errors.Wrap(b.err, "build links")
	}
	fmt.Fprintf(w, "Created implication rule for transitive inheritance (premise reused: %t)\n", premise == catAnimal)

	section(w, "AtomSpace Statistics")
	printStats(w, space)

	section(w, "Pattern Matching Demo")
	matches := space.PatternMatch(cat, 10)
	fmt.Fprintf(w, "Found %d concept nodes matching Cat's type:\n", len(matches))
	for _, h := range matches {
		if name, ok := space.Name(h); ok {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}

	section(w, "Forward Inference Demo")
	conclusions, err := space.ForwardInfer(premise, 10)
	if err != nil {
		return errors.Wrap(err, "forward inference")
	}
	if len(conclusions) == 0 {
		fmt.Fprintln(w, "No conclusions drawn from forward inference")
	} else {
		fmt.Fprintf(w, "Forward inference from Cat->Animal produced %d conclusions:\n", len(conclusions))
	}
	out := make([]atom.Handle, 2)
	for _, h := range conclusions {
		if space.CopyOutgoing(h, out) < 2 {
			continue
		}
		from, _ := space.Name(out[0])
		to, _ := space.Name(out[1])
		fmt.Fprintf(w, "  - %s inherits from %s\n", from, to)
	}

	section(w, "State Bridge")
	const stateLen = 50
	state := make([]float32, stateLen)
	for i := range state {
		if i%5 == 0 {
			state[i] = 0.3 * float32(i/5)
		} else {
			state[i] = 0.05 * float32(i)
		}
	}
	written, err := e.StateToAtoms(state)
	if err != nil {
		return errors.Wrap(err, "encode state")
	}
	fmt.Fprintf(w, "Encoded %d of %d state elements as atoms\n", written, stateLen)
	fmt.Fprintf(w, "AtomSpace now contains %d atoms\n", space.Size())

	recovered := make([]float32, stateLen)
	e.AtomsToState(recovered)
	fmt.Fprintln(w, "Sample state comparison (first 10 elements):")
	fmt.Fprintln(w, "  Original -> Recovered")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(w, "  %.3f -> %.3f\n", state[i], recovered[i])
	}

	section(w, "Memory Consolidation")
	before := space.Size()
	merged, err := e.Consolidate(threshold)
	if err != nil {
		return errors.Wrap(err, "consolidate")
	}
	fmt.Fprintf(w, "Consolidation at threshold %.2f merged %d atoms\n", threshold, merged)
	fmt.Fprintf(w, "Atoms before: %d, after: %d\n", before, space.Size())
	if to, ok := space.Forwarded(cat); ok {
		name, _ := space.Name(to)
		fmt.Fprintf(w, "Cat was merged into %s\n", name)
	}

	section(w, "Final Statistics")
	printStats(w, space)
	return nil
}

func printStats(w io.Writer, space *store.AtomSpace) {
	st := space.Stats()
	fmt.Fprintf(w, "Total atoms: %d\n", st.Size)
	fmt.Fprintf(w, "Nodes: %d\n", st.Nodes)
	fmt.Fprintf(w, "Links: %d\n", st.Links)
}
