package svgexport

import (
	"fmt"

	"cogentcore.org/core/base/keylist"
)

// Stage is a point in a lineset's render at which exporters contribute.
type Stage string

// Stages in the order a lineset runs them.
const (
	StagePreLineset   Stage = "pre-lineset"
	StagePostModifier Stage = "post-modifier"
	StagePostLineset  Stage = "post-lineset"
)

// Stages lists every stage in run order.
var Stages = []Stage{StagePreLineset, StagePostModifier, StagePostLineset}

// Contribution is a layer of path elements one exporter produced for a
// lineset.
type Contribution struct {
	Source   string
	Lineset  string
	Kind     LayerKind
	Elements []PathElement
}

// StageFunc receives the contributions of the entries that ran before it
// and returns the list handed to the next entry.
type StageFunc func(pass *LinesetPass, in []Contribution) ([]Contribution, error)

// StageRegistry holds the named entries of every stage in registration
// order, so exporters registered side by side compose explicitly.
type StageRegistry struct {
	stages map[Stage]*keylist.List[string, StageFunc]
}

// NewStageRegistry returns an empty registry.
func NewStageRegistry() *StageRegistry {
	return &StageRegistry{stages: make(map[Stage]*keylist.List[string, StageFunc])}
}

// Register appends a named entry to a stage. Names are unique per stage.
func (r *StageRegistry) Register(stage Stage, name string, fn StageFunc) error {
	l, ok := r.stages[stage]
	if !ok {
		l = keylist.New[string, StageFunc]()
		r.stages[stage] = l
	}
	if err := l.Add(name, fn); err != nil {
		return fmt.Errorf("stage %s: %w", stage, err)
	}
	return nil
}

// Unregister removes a named entry, reporting whether it was present.
func (r *StageRegistry) Unregister(stage Stage, name string) bool {
	l, ok := r.stages[stage]
	if !ok {
		return false
	}
	return l.DeleteByKey(name)
}

// Names returns the entry names of a stage in run order.
func (r *StageRegistry) Names(stage Stage) []string {
	l, ok := r.stages[stage]
	if !ok {
		return nil
	}
	return append([]string(nil), l.Keys...)
}

// Run threads contributions through every entry of the stage. On error the
// contributions returned so far come back with it.
func (r *StageRegistry) Run(stage Stage, pass *LinesetPass, in []Contribution) ([]Contribution, error) {
	l, ok := r.stages[stage]
	if !ok {
		return in, nil
	}
	for i, fn := range l.Values {
		out, err := fn(pass, in)
		if err != nil {
			return in, fmt.Errorf("stage %s, %s: %w", stage, l.Keys[i], err)
		}
		in = out
	}
	return in, nil
}

// RunLineset runs all stages for one lineset, each starting from the
// previous stage's contributions.
func (r *StageRegistry) RunLineset(pass *LinesetPass) ([]Contribution, error) {
	var contribs []Contribution
	for _, stage := range Stages {
		var err error
		if contribs, err = r.Run(stage, pass, contribs); err != nil {
			return contribs, err
		}
	}
	return contribs, nil
}
