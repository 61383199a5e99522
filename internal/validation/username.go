package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MaxUsernameLength mirrors the users.username column size
const MaxUsernameLength = 150

// Letters and digits from any script, plus @ . + - _
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_.@+-]+$`)

// reservedUsernames would be shadowed by fixed routes under /users/
var reservedUsernames = map[string]bool{
	"me": true,
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the project's custom rules.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = RegisterRules(validate)
	})
	return validate
}

// RegisterRules installs the custom tags on v and reports fields by their
// json name. The HTTP layer calls it on gin's binding engine so request DTOs
// can use the same tags.
func RegisterRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return usernamePattern.MatchString(name) && !reservedUsernames[name]
	})
}

// Username reports whether s is an acceptable login name.
func Username(s string) bool {
	return Validator().Var(s, "required,max=150,username") == nil
}
