package req

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/schema"
	"github.com/xy-planning-network/junction"
)

type queryParamDecoder struct {
	dec *schema.Decoder
}

func newQueryParamDecoder() queryParamDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return queryParamDecoder{dec}
}

func (d queryParamDecoder) decode(structPtr any, params map[string][]string) error {
	if err := d.dec.Decode(structPtr, params); err != nil {
		return translateDecoderError(err)
	}
	return nil
}

// translateDecoderError converts an error returned by *schema.Decoder into junction errors.
// Conversion failures are the caller's fault and become ValidationErrors;
// the rest are programming errors.
func translateDecoderError(err error) error {
	var pkgErrs schema.MultiError
	// schema reports problems with the values themselves as a MultiError.
	if !errors.As(err, &pkgErrs) {
		return fmt.Errorf("%w: %s", junction.ErrUnexpected, err)
	}

	var validErrs ValidationErrors
	for _, pkgErr := range pkgErrs {
		switch err := pkgErr.(type) {
		case schema.ConversionError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				// Index is -1 for non-slice values.
				Got:  fmt.Sprintf("bad value at index %d", max(0, err.Index)),
				Rule: "must be " + err.Type.String(),
			})

		case schema.EmptyFieldError:
			return fmt.Errorf(`%w: use "validate" struct tags to require fields, not schema`, junction.ErrBadConfig)

		case schema.UnknownKeyError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				Got:   "value is set",
				Rule:  "unexpected key should not be set",
			})

		default:
			// A field whose type schema cannot convert only fails once a value for it arrives.
			if strings.Contains(err.Error(), "schema: converter not found for") {
				return fmt.Errorf("%w: cannot convert values into unsupported type", junction.ErrBadConfig)
			}

			return fmt.Errorf("%w: %s", junction.ErrUnexpected, err)
		}
	}

	return validErrs
}
