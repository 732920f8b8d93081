package models

import "fmt"

// Section names the flow graph branch whose allocators are currently
// listed. At most one section is expanded at a time.
type Section string

const (
	SectionNone            Section = ""
	SectionDirectAutomatic Section = "Direct-Automatic"
	SectionDirectManual    Section = "Direct-Manual"
	SectionMPMA            Section = "MPMA"
)

var sections = map[string]Section{
	string(SectionDirectAutomatic): SectionDirectAutomatic,
	string(SectionDirectManual):    SectionDirectManual,
	string(SectionMPMA):            SectionMPMA,
}

func ParseSection(s string) (Section, error) {
	if s == "" {
		return SectionNone, nil
	}
	section, ok := sections[s]
	if !ok {
		return SectionNone, fmt.Errorf("unknown section %q", s)
	}
	return section, nil
}

// Toggle returns the section that is expanded after node is clicked.
// Placeholders and allocator leaves never change the state.
func (s Section) Toggle(node GraphNode) Section {
	if node.IsPlaceholder || node.IsLeaf {
		return s
	}
	return s.ToggleName(node.Name)
}

// ToggleName collapses s when name is s itself, expands name when it is a
// known section and otherwise leaves s unchanged.
func (s Section) ToggleName(name string) Section {
	target, ok := sections[name]
	if !ok {
		return s
	}
	if s == target {
		return SectionNone
	}
	return target
}
