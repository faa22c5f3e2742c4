package lint

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validate checks that the unit carries every required attribute.
// It returns a *MalformedInputError describing all problems found.
func (u Unit) Validate() error {
	problems := make([]string, 0, len(u.absent))
	for _, attr := range u.absent {
		problems = append(problems, attr+" is missing")
	}

	if u.Name == "" && !slices.Contains(u.absent, "name") {
		problems = append(problems, "name is empty")
	}
	if len(u.ImportPathSegments) == 0 && !slices.Contains(u.absent, "importPathSegments") {
		problems = append(problems, "importPathSegments is empty")
	}
	for i, seg := range u.ImportPathSegments {
		if strings.TrimSpace(seg) == "" {
			problems = append(problems, fmt.Sprintf("importPathSegments[%d] is empty", i))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &MalformedInputError{UnitName: u.Name, Problems: problems}
}

// unitWire mirrors Unit with pointer fields so absent attributes can be told
// apart from zero values. importPath is accepted in place of segments.
type unitWire struct {
	Name               *string  `json:"name" yaml:"name"`
	IsEntryPoint       *bool    `json:"isEntryPoint" yaml:"isEntryPoint"`
	HasLeadingDoc      *bool    `json:"hasLeadingDoc" yaml:"hasLeadingDoc"`
	ImportPathSegments []string `json:"importPathSegments" yaml:"importPathSegments"`
	ImportPath         *string  `json:"importPath" yaml:"importPath"`
	Dir                string   `json:"dir" yaml:"dir"`
}

func (w unitWire) unit() Unit {
	var u Unit
	if w.Name != nil {
		u.Name = *w.Name
	} else {
		u.absent = append(u.absent, "name")
	}
	if w.IsEntryPoint != nil {
		u.IsEntryPoint = *w.IsEntryPoint
	} else {
		u.absent = append(u.absent, "isEntryPoint")
	}
	if w.HasLeadingDoc != nil {
		u.HasLeadingDoc = *w.HasLeadingDoc
	} else {
		u.absent = append(u.absent, "hasLeadingDoc")
	}
	switch {
	case w.ImportPathSegments != nil:
		u.ImportPathSegments = w.ImportPathSegments
	case w.ImportPath != nil:
		if *w.ImportPath != "" {
			u.ImportPathSegments = strings.Split(*w.ImportPath, "/")
		}
	default:
		u.absent = append(u.absent, "importPathSegments")
	}
	u.Dir = w.Dir
	return u
}

// UnmarshalJSON decodes a unit descriptor, remembering absent attributes.
func (u *Unit) UnmarshalJSON(data []byte) error {
	var w unitWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*u = w.unit()
	return nil
}

// UnmarshalYAML decodes a unit descriptor, remembering absent attributes.
func (u *Unit) UnmarshalYAML(value *yaml.Node) error {
	var w unitWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	*u = w.unit()
	return nil
}
