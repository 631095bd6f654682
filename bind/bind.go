// Package bind decodes processed output maps into Go structs.
package bind

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	brannigan "github.com/ido50/Brannigan"
)

// Result decodes res.Output into out, which must be a pointer to a struct.
// Fields are matched by their json tags so the same tags serve wire decoding
// and result binding. Decoding is weakly typed: the numeric strings and
// json.Number values that survive processing coerce into numeric struct
// fields.
func Result(res *brannigan.Result, out any) error {
	return Output(res.Output, out)
}

// Output decodes an output map into out. See Result.
func Output(output map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	if err := dec.Decode(output); err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	return nil
}
