package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSection(t *testing.T) {
	t.Run("empty is none", func(t *testing.T) {
		s, err := ParseSection("")

		require.NoError(t, err)
		assert.Equal(t, SectionNone, s)
	})

	t.Run("known sections", func(t *testing.T) {
		for _, name := range []string{"Direct-Automatic", "Direct-Manual", "MPMA"} {
			s, err := ParseSection(name)

			require.NoError(t, err)
			assert.Equal(t, Section(name), s)
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := ParseSection("Faucet")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown section")
	})
}

func TestSectionToggle(t *testing.T) {
	section := func(name string) GraphNode {
		return GraphNode{Name: name, IsExpandable: true}
	}

	t.Run("toggling twice collapses", func(t *testing.T) {
		s := SectionNone.Toggle(section("MPMA"))
		assert.Equal(t, SectionMPMA, s)

		s = s.Toggle(section("MPMA"))
		assert.Equal(t, SectionNone, s)
	})

	t.Run("second section replaces the first", func(t *testing.T) {
		s := SectionNone.Toggle(section("Direct-Automatic"))
		s = s.Toggle(section("Direct-Manual"))

		assert.Equal(t, SectionDirectManual, s)
	})

	t.Run("placeholders and leaves are ignored", func(t *testing.T) {
		s := SectionMPMA.Toggle(GraphNode{Name: "...", IsPlaceholder: true})
		assert.Equal(t, SectionMPMA, s)

		s = SectionMPMA.Toggle(GraphNode{Name: "MPMA", IsLeaf: true})
		assert.Equal(t, SectionMPMA, s)
	})

	t.Run("unknown names are ignored", func(t *testing.T) {
		assert.Equal(t, SectionDirectManual, SectionDirectManual.Toggle(section("Faucet")))
		assert.Equal(t, SectionNone, SectionNone.ToggleName("Root Key Holder"))
	})
}
