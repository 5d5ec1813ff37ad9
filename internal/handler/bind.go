package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"flight-assistant/internal/model"

	"github.com/go-playground/validator/v10"
)

var flightQueryType = reflect.TypeOf(model.FlightQuery{})

// describeBindError turns gin binding errors into one line naming the wire
// fields, e.g. "MONTH must be at most 12".
func describeBindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	name := fe.Field()
	if f, ok := flightQueryType.FieldByName(fe.StructField()); ok {
		if tag := f.Tag.Get("json"); tag != "" {
			name = tag
		}
	}
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return name + " is invalid"
	}
}
