package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazypower/atomspace/internal/atom"
	"github.com/lazypower/atomspace/internal/errors"
)

func TestPatternMatchSameTypeExcludesSelf(t *testing.T) {
	s := New()
	cat := mustNode(t, s, atom.ConceptNode, "Cat")
	dog := mustNode(t, s, atom.ConceptNode, "Dog")
	mustNode(t, s, atom.PredicateNode, "Red")

	assert.Equal(t, []atom.Handle{dog}, s.PatternMatch(cat, 10))
}

func TestPatternMatchLimits(t *testing.T) {
	s := New()
	cat := mustNode(t, s, atom.ConceptNode, "Cat")
	for _, name := range []string{"Dog", "Fish", "Bird", "Cow"} {
		mustNode(t, s, atom.ConceptNode, name)
	}

	assert.Len(t, s.PatternMatch(cat, 2), 2)
	assert.Len(t, s.PatternMatch(cat, 100), 4)
	assert.Empty(t, s.PatternMatch(cat, 0))
	assert.Empty(t, s.PatternMatch(404, 10))
	assert.Empty(t, s.PatternMatch(atom.InvalidHandle, 10))
}

func TestPatternMatchLinks(t *testing.T) {
	s := New()
	cat := mustNode(t, s, atom.ConceptNode, "Cat")
	dog := mustNode(t, s, atom.ConceptNode, "Dog")
	animal := mustNode(t, s, atom.ConceptNode, "Animal")
	l1 := mustLink(t, s, atom.InheritanceLink, cat, animal)
	l2 := mustLink(t, s, atom.InheritanceLink, dog, animal)
	mustLink(t, s, atom.ListLink, cat, dog)

	assert.Equal(t, []atom.Handle{l2}, s.PatternMatch(l1, 10))
}

func TestForwardInferSingleHop(t *testing.T) {
	s := New()
	cat := mustNode(t, s, atom.ConceptNode, "Cat")
	animal := mustNode(t, s, atom.ConceptNode, "Animal")
	mustLink(t, s, atom.ImplicationLink, cat, animal)

	got, err := s.ForwardInfer(cat, 10)
	require.NoError(t, err)
	assert.Equal(t, []atom.Handle{animal}, got)

	got, err = s.ForwardInfer(animal, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestForwardInferDoesNotChain(t *testing.T) {
	s := New()
	a := mustNode(t, s, atom.ConceptNode, "A")
	b := mustNode(t, s, atom.ConceptNode, "B")
	c := mustNode(t, s, atom.ConceptNode, "C")
	d := mustNode(t, s, atom.ConceptNode, "D")
	mustLink(t, s, atom.ImplicationLink, a, b)
	mustLink(t, s, atom.ImplicationLink, b, c)
	mustLink(t, s, atom.ImplicationLink, a, d)
	// Wrong link type and wrong arity are ignored.
	mustLink(t, s, atom.InheritanceLink, a, c)
	mustLink(t, s, atom.ImplicationLink, a, b, c)

	got, err := s.ForwardInfer(a, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []atom.Handle{b, d}, got)

	got, err = s.ForwardInfer(a, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestForwardInferInvalidInput(t *testing.T) {
	s := New()
	_, err := s.ForwardInfer(atom.InvalidHandle, 10)
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = s.ForwardInfer(1, -1)
	assert.True(t, errors.IsInvalidArgument(err))

	got, err := s.ForwardInfer(12345, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAtomsOfType(t *testing.T) {
	s := New()
	cat := mustNode(t, s, atom.ConceptNode, "Cat")
	mustNode(t, s, atom.PredicateNode, "Red")
	dog := mustNode(t, s, atom.ConceptNode, "Dog")

	got := s.AtomsOfType(atom.ConceptNode)
	require.Len(t, got, 2)
	assert.Equal(t, cat, got[0].Handle())
	assert.Equal(t, dog, got[1].Handle())
	assert.Empty(t, s.AtomsOfType(atom.AndLink))
}
