package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// localpart is the left side of an email address, without quoting.
var localpartRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]{1,64}$`)

func init() {
	validate.RegisterValidation("localpart", func(fl validator.FieldLevel) bool {
		return localpartRegex.MatchString(fl.Field().String())
	})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
