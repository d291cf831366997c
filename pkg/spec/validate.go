package spec

import (
	// blank import for embeds
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"
)

//go:embed data/imagespec_schema_v1.json
var schemaV1 []byte

// ValidateSchema checks raw YAML against the spec JSON schema.
func ValidateSchema(contents []byte) error {
	j, err := yaml.YAMLToJSON(contents)
	if err != nil {
		return &ValidationError{Field: "(root)", Message: err.Error()}
	}
	if strings.TrimSpace(string(j)) == "null" {
		j = []byte("{}")
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaV1)
	dataLoader := gojsonschema.NewBytesLoader(j)
	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return &ValidationError{Field: "(root)", Message: err.Error()}
	}
	if result.Valid() {
		return nil
	}

	errs := ValidationErrors{}
	for _, resultErr := range result.Errors() {
		errs = append(errs, &ValidationError{
			Field:   resultErr.Field(),
			Message: resultErr.Description(),
		})
	}
	return errs
}

// Validate checks the values of s that the schema can't express.
func (s *Spec) Validate() error {
	errs := ValidationErrors{}

	if s.PythonVersion != "" {
		if err := validatePythonVersion(s.PythonVersion); err != nil {
			errs = append(errs, &ValidationError{Field: string(FieldPythonVersion), Message: err.Error()})
		}
	}

	for _, env := range s.Env {
		if env.Name == "" {
			errs = append(errs, &ValidationError{Field: string(FieldEnv), Message: "environment variable names must not be empty"})
		}
		if strings.ContainsAny(env.Name, "= \t\n") {
			errs = append(errs, &ValidationError{Field: string(FieldEnv), Message: fmt.Sprintf("invalid environment variable name %q", env.Name)})
		}
	}

	for _, command := range s.Commands {
		if strings.Contains(strings.TrimSpace(command), "\n") {
			errs = append(errs, &ValidationError{
				Field:   string(FieldCommands),
				Message: fmt.Sprintf("one of the commands contains a new line, which won't work. You need to create a new list item for each command.\n\nThis is the offending line: %s", command),
			})
		}
	}

	if _, err := s.ParseImageName(); err != nil {
		errs = append(errs, &ValidationError{Field: string(FieldRegistry), Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePythonVersion(v string) error {
	parts := strings.Split(v, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("Python version must be <major>.<minor>, got %q", v)
	}
	if _, err := MajorMinor(v); err != nil {
		return fmt.Errorf("invalid Python version %q: %w", v, err)
	}
	return nil
}
