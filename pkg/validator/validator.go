package validator

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"reunion/internal/sanitize"
)

var (
	global      *validator.Validate
	nameRegex   = regexp.MustCompile(`^[A-Za-z\s]+$`)
	mobileRegex = regexp.MustCompile(`^\d{11}$`)
	sessionRe   = regexp.MustCompile(`^(\d{4})-(\d{4})$`)
	addressRe   = regexp.MustCompile(`^[A-Za-z0-9\s,.\-/#()]+$`)
)

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxVal = "Field exceeds maximum value"
	ErrFieldBelowMinVal   = "Field is below minimum value"
	ErrUnknownValidation  = "Unknown validation error"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("positive", validatePositiveInt)
	_ = v.RegisterValidation("personname", validatePersonName)
	_ = v.RegisterValidation("mobilebd", validateMobile)
	_ = v.RegisterValidation("session", validateSession)
	_ = v.RegisterValidation("address", validateAddress)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func validatePositiveInt(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(int)
	return ok && val > 0
}

// Name-like fields are matched after HTML stripping, so a value such
// as "Jo<script>hn" fails the letters-and-spaces check even when the
// embedded markup would survive a naive regex.
func validatePersonName(fl validator.FieldLevel) bool {
	stripped := sanitize.StripHTML(fl.Field().String())
	return stripped != "" && nameRegex.MatchString(stripped)
}

func validateMobile(fl validator.FieldLevel) bool {
	return mobileRegex.MatchString(fl.Field().String())
}

// No alumni predate the university.
const earliestSessionYear = 1950

// Sessions are academic years like "2004-2005": two consecutive years,
// the first no earlier than the university opened and no later than
// the current year.
func validateSession(fl validator.FieldLevel) bool {
	m := sessionRe.FindStringSubmatch(fl.Field().String())
	if m == nil {
		return false
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	if second != first+1 {
		return false
	}
	return first >= earliestSessionYear && first <= time.Now().Year()
}

func validateAddress(fl validator.FieldLevel) bool {
	return addressRe.MatchString(fl.Field().String())
}

func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "gt", "gte":
		msg = ErrFieldBelowMinVal
	case "eq":
		msg = "Value is not the required fixed value"
	case "email":
		msg = "Invalid email address"
	case "positive":
		msg = "Value must be positive"
	case "personname":
		msg = "Only letters and spaces are allowed"
	case "mobilebd":
		msg = "Mobile number must be exactly 11 digits"
	case "session":
		msg = "Session must be a valid academic year like 2004-2005"
	case "address":
		msg = "Address contains disallowed characters"
	default:
		msg = ErrUnknownValidation
	}
	return errors.New(msg + ": " + namespace(ve))
}

// namespace drops the request-struct prefix so messages read like
// "PaymentInfo.TotalAmount" instead of the full type path.
func namespace(ve validator.FieldError) string {
	ns := ve.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
