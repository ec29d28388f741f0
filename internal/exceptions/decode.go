package exceptions

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeRecord turns one raw document element into a record. Unknown keys,
// wrong value types and missing required fields are reported as errors.
func decodeRecord(raw any) (domain.ExceptionRecord, error) {
	var rec domain.ExceptionRecord

	switch v := raw.(type) {
	case error:
		return rec, v
	case map[string]any:
	default:
		return rec, fmt.Errorf("record is not an object (got %T)", raw)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  dateToStringHook,
		ErrorUnused: true,
		Result:      &rec,
		TagName:     "mapstructure",
	})
	if err != nil {
		return rec, err
	}
	if err := decoder.Decode(raw); err != nil {
		return rec, fmt.Errorf("decoding record: %w", err)
	}

	if err := validate.Struct(rec); err != nil {
		return rec, describeValidation(err)
	}
	return rec, nil
}

// dateToStringHook accepts a date already typed by the document decoder.
func dateToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	if t, ok := data.(time.Time); ok {
		return t.UTC().Format(domain.ExpiryLayout), nil
	}
	return data, nil
}

func describeValidation(err error) error {
	var missing []string
	if ves, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ves {
			missing = append(missing, fieldKey(fe.StructField()))
		}
	}
	if len(missing) == 0 {
		return err
	}
	sort.Strings(missing)
	return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
}

func fieldKey(structField string) string {
	f, ok := reflect.TypeOf(domain.ExceptionRecord{}).FieldByName(structField)
	if !ok {
		return structField
	}
	if tag := f.Tag.Get("mapstructure"); tag != "" {
		return tag
	}
	return structField
}
