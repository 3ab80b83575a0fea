package request

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/edvin/statusboard/internal/model"
)

var validate = validator.New()

func init() {
	validate.RegisterValidation("state", func(fl validator.FieldLevel) bool {
		_, err := model.ParseState(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("itemkind", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case model.KindGroup, model.KindHTTP, model.KindTCP, model.KindExternal:
			return true
		}
		return false
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

func RequireID(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required ID")
	}
	return s, nil
}
