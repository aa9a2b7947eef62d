package form

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tsanders-rh/ocpconsole/pkg/types"
)

// Field names as they appear in the page form
const (
	FieldName             = "name"
	FieldOpenshiftVersion = "openshiftVersion"
	FieldPullSecret       = "pullSecret"
)

// Cluster name length bounds. The API rejects names shorter than three
// characters; the upper bound leaves room for the generated infra ID suffix.
const (
	MinClusterNameLength = 3
	MaxClusterNameLength = 54
)

// clusterNamePattern is the shared cluster naming schema: a DNS label that
// starts with a letter and ends with a letter or digit.
var clusterNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$`)

// Validator checks cluster creation values without contacting the network
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the cluster form rules registered
func NewValidator() *Validator {
	v := validator.New()

	// Report errors under the form field names instead of the Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("clustername", func(fl validator.FieldLevel) bool {
		return IsValidClusterName(fl.Field().String())
	})

	v.RegisterValidation("versionselected", func(fl validator.FieldLevel) bool {
		return fl.Field().String() != types.VersionPlaceholderValue
	})

	v.RegisterValidation("pullsecret", func(fl validator.FieldLevel) bool {
		return hasAuths(fl.Field().String())
	})

	return &Validator{validate: v}
}

// IsValidClusterName reports whether name satisfies the cluster naming schema
func IsValidClusterName(name string) bool {
	return len(name) >= MinClusterNameLength &&
		len(name) <= MaxClusterNameLength &&
		clusterNamePattern.MatchString(name)
}

// Fields validates params and returns one message per failing field.
// An empty map means the values are valid.
func (v *Validator) Fields(params types.ClusterCreateParams) map[string]string {
	errs := make(map[string]string)

	err := v.validate.Struct(params)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError only happens for non-struct input
		errs[FieldName] = err.Error()
		return errs
	}

	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe.Field(), fe.Tag())
	}

	return errs
}

// message maps a failed rule to the text shown next to the field
func message(field, tag string) string {
	switch tag {
	case "required":
		return "Required field"
	case "clustername":
		return "Name can only contain lowercase alphanumeric characters and '-', must start with a letter, " +
			"end with an alphanumeric character, and be 3 to 54 characters long"
	case "versionselected":
		return "Select an OpenShift version"
	case "json":
		return "Invalid pull secret format, it must be valid JSON"
	case "pullsecret":
		return "Invalid pull secret format, the auths section is missing"
	}
	return field + " is invalid"
}

// hasAuths checks the pull secret has the registry auths section
func hasAuths(secret string) bool {
	var parsed struct {
		Auths map[string]json.RawMessage `json:"auths"`
	}
	if err := json.Unmarshal([]byte(secret), &parsed); err != nil {
		return false
	}
	return parsed.Auths != nil
}
