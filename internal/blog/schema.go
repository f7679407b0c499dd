package blog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	reflectschema "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const datasetSchemaURL = "posts.schema.json"

var (
	datasetValidatorOnce sync.Once
	datasetValidator     *jsonschema.Schema
	datasetValidatorErr  error
)

// DatasetSchema returns the JSON schema a posts dataset file must satisfy,
// generated from the Post type.
func DatasetSchema() ([]byte, error) {
	r := reflectschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	return json.MarshalIndent(r.Reflect([]Post{}), "", "  ")
}

func compiledDatasetSchema() (*jsonschema.Schema, error) {
	datasetValidatorOnce.Do(func() {
		raw, err := DatasetSchema()
		if err != nil {
			datasetValidatorErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(datasetSchemaURL, bytes.NewReader(raw)); err != nil {
			datasetValidatorErr = err
			return
		}
		datasetValidator, datasetValidatorErr = c.Compile(datasetSchemaURL)
	})
	return datasetValidator, datasetValidatorErr
}

// validateDataset checks raw JSON against the dataset schema.
func validateDataset(raw []byte) error {
	sch, err := compiledDatasetSchema()
	if err != nil {
		return fmt.Errorf("compile dataset schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return nil
}
