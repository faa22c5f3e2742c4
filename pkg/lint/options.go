package lint

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeOptions decodes rule-specific options (as read from configuration)
// into out, which must be a pointer to a struct with mapstructure tags.
//
// Decoding is strict: unknown keys and values of the wrong type (for example
// a number inside a list of names) yield a *ConfigurationError for ruleID.
func DecodeOptions(ruleID string, opts map[string]any, out any) error {
	if len(opts) == 0 {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return &ConfigurationError{RuleID: ruleID, Err: err}
	}

	if err := dec.Decode(opts); err != nil {
		return &ConfigurationError{
			RuleID: ruleID,
			Err:    fmt.Errorf("%w: %w", ErrInvalidOption, err),
		}
	}
	return nil
}
