// Package validate checks the account forms before they reach the backend.
package validate

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Errors maps a form field (its json name) to a message for the user.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f + ": " + e[f]
	}
	return strings.Join(msgs, "; ")
}

// Strategy validates one kind of form.
type Strategy[T any] interface {
	Validate(form T) error
}

// SignInForm holds the sign in fields.
type SignInForm struct {
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"notblank,min=6"`
}

// SignUpForm holds the sign up fields.
type SignUpForm struct {
	FirstName       string `json:"first_name" validate:"notblank"`
	LastName        string `json:"last_name" validate:"notblank"`
	Email           string `json:"email" validate:"notblank,email"`
	Password        string `json:"password" validate:"notblank,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"notblank,eqfield=Password"`
}

// messages are keyed by field and failed tag.
type messages map[string]string

var signInMessages = messages{
	"email.notblank":    "Your email address is required",
	"email.email":       "Email address is invalid",
	"password.notblank": "Password is required",
	"password.min":      "Password should be minimum 6 characters long",
}

var signUpMessages = messages{
	"first_name.notblank":       "Your first name is required",
	"last_name.notblank":        "Your last name is required",
	"email.notblank":            "Your email address is required",
	"email.email":               "Email address is invalid",
	"password.notblank":         "Password is required",
	"password.min":              "Should have min 6 characters",
	"confirm_password.notblank": "Please re-type the password",
	"confirm_password.eqfield":  "Passwords do not match",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

func check(v *validator.Validate, form any, msgs messages) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := Errors{}
	for _, fe := range verrs {
		msg, ok := msgs[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out[fe.Field()] = msg
	}
	return out
}

// SignIn validates the sign in form.
type SignIn struct {
	v *validator.Validate
}

// NewSignIn returns the sign in strategy.
func NewSignIn() *SignIn {
	return &SignIn{v: newValidator()}
}

// Validate returns Errors when the form is not acceptable. The email is
// checked trimmed; the password length counts surrounding spaces.
func (s *SignIn) Validate(form SignInForm) error {
	form.Email = strings.TrimSpace(form.Email)
	return check(s.v, form, signInMessages)
}

// SignUp validates the sign up form.
type SignUp struct {
	v *validator.Validate
}

// NewSignUp returns the sign up strategy.
func NewSignUp() *SignUp {
	return &SignUp{v: newValidator()}
}

// Validate returns Errors when the form is not acceptable.
func (s *SignUp) Validate(form SignUpForm) error {
	form.Email = strings.TrimSpace(form.Email)
	return check(s.v, form, signUpMessages)
}

var (
	_ Strategy[SignInForm] = (*SignIn)(nil)
	_ Strategy[SignUpForm] = (*SignUp)(nil)
)
