package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlaggedFindsDeniedTerms(t *testing.T) {
	s := NewScreener()

	flagged := s.Flagged("A concealed WEAPON mount for humanoids")
	assert.Equal(t, []string{"weapon"}, flagged)
}

func TestFlaggedMatchesWholeWordsOnly(t *testing.T) {
	s := NewScreenerWithTerms([]string{"arm"})

	assert.Nil(t, s.Flagged("robotic forearm with harmonic drive"))
	assert.Equal(t, []string{"arm"}, s.Flagged("replacement arm assembly"))
}

func TestFlaggedDeduplicates(t *testing.T) {
	s := NewScreener()

	flagged := s.Flagged("weapon holder, spare weapon, Weapon rack")
	assert.Equal(t, []string{"weapon"}, flagged)
}

func TestAllow(t *testing.T) {
	s := NewScreener()

	assert.True(t, s.Allow("A friendly household humanoid"))
	assert.False(t, s.Allow("firearm attachment bracket"))
}
