// Package capability checks which spec fields a backend understands.
package capability

import (
	"github.com/replicate/envspec/pkg/spec"
	"github.com/replicate/envspec/pkg/util/console"
)

// Unsupported returns the fields set on s that are missing from supported.
func Unsupported(s *spec.Spec, supported spec.FieldSet) []spec.Field {
	unsupported := []spec.Field{}
	for _, f := range s.Fields() {
		if !supported.Has(f) {
			unsupported = append(unsupported, f)
		}
	}
	return unsupported
}

// Validate returns the unsupported fields of s and warns about them once.
// It never fails a build: the backend ignores what it doesn't understand.
func Validate(s *spec.Spec, backend string, supported spec.FieldSet) []spec.Field {
	unsupported := Unsupported(s, supported)
	if len(unsupported) > 0 {
		console.Warnf("Builder %s does not support %s, these fields will be ignored", backend, spec.JoinFields(unsupported))
	}
	return unsupported
}
