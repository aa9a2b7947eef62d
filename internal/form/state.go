package form

import "github.com/tsanders-rh/ocpconsole/pkg/types"

// State is the single mutable record behind the new-cluster form
type State struct {
	Values     types.ClusterCreateParams
	Initial    types.ClusterCreateParams
	Errors     map[string]string
	Touched    map[string]bool
	Submitting bool

	validator *Validator
}

// New creates form state seeded with initial values and validates them
func New(v *Validator, initial types.ClusterCreateParams) *State {
	s := &State{
		Values:    initial,
		Initial:   initial,
		Touched:   make(map[string]bool),
		validator: v,
	}
	s.Validate()
	return s
}

// SetValues replaces the current values and revalidates them
func (s *State) SetValues(values types.ClusterCreateParams) {
	s.Values = values
	s.Validate()
}

// Validate runs the synchronous field rules, replacing all field errors.
// It returns true when every field passes.
func (s *State) Validate() bool {
	s.Errors = s.validator.Fields(s.Values)
	return len(s.Errors) == 0
}

// SetFieldError records an error for a field, e.g. from an asynchronous check
func (s *State) SetFieldError(field, message string) {
	if s.Errors == nil {
		s.Errors = make(map[string]string)
	}
	s.Errors[field] = message
	s.Touched[field] = true
}

// FieldError returns the error of a field once the field has been touched
func (s *State) FieldError(field string) string {
	if !s.Touched[field] {
		return ""
	}
	return s.Errors[field]
}

// Touch marks fields as visited so their errors are shown
func (s *State) Touch(fields ...string) {
	for _, f := range fields {
		s.Touched[f] = true
	}
}

// TouchAll marks every form field as visited
func (s *State) TouchAll() {
	s.Touch(FieldName, FieldOpenshiftVersion, FieldPullSecret)
}

// Dirty reports whether the values differ from the initial ones
func (s *State) Dirty() bool {
	return s.Values != s.Initial
}

// Valid reports whether no field currently has an error
func (s *State) Valid() bool {
	return len(s.Errors) == 0
}

// CanSubmit is the enablement rule of the save control
func (s *State) CanSubmit() bool {
	return !s.Submitting && s.Valid() && s.Dirty()
}
