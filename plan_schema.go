package preplan

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/plan.schema.json
var planSchemaJSON []byte

const planSchemaURL = "plan.schema.json"

var planSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(planSchemaJSON))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse plan schema")
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(planSchemaURL, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to add plan schema")
	}
	sch, err := c.Compile(planSchemaURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile plan schema")
	}
	return sch, nil
})

// PlanSchema returns the embedded JSON schema that every written plan must
// satisfy.
func PlanSchema() []byte {
	return bytes.Clone(planSchemaJSON)
}

// EncodePayload validates payload against the plan schema and returns its
// canonical encoding: object keys sorted, two-space indentation, no HTML
// escaping and a trailing newline. Equal payloads always encode to identical
// bytes.
func EncodePayload(payload *PlanPayload) ([]byte, error) {
	if payload == nil {
		return nil, goerr.New("plan payload is nil", goerr.Tag(ErrTagValidation))
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal plan payload")
	}

	// Decoding into generic values gives map-backed objects, which
	// encoding/json always writes with sorted keys.
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode plan payload")
	}

	sch, err := planSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, goerr.Wrap(err, "plan payload does not match schema", goerr.Tag(ErrTagValidation))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, goerr.Wrap(err, "failed to encode plan payload")
	}
	return buf.Bytes(), nil
}
