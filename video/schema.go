package video

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/samber/mo"
)

var optionalBool = reflect.TypeOf(mo.Option[bool]{})

// Schema returns the JSON schema of descriptor files.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == optionalBool {
				return &jsonschema.Schema{Type: "boolean"}
			}
			return nil
		},
	}
	return r.Reflect(&Descriptor{})
}
