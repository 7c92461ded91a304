// Package inventory decodes and validates the list of OUs to register.
package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/edvin/ouregister/internal/model"
)

var validate = validator.New()

// File is the document form of an inventory file. A file may instead hold a
// bare list of OUs.
type File struct {
	Region              string                     `yaml:"region"`
	OrganizationalUnits []model.OrganizationalUnit `yaml:"organizational_units"`
}

type ouList struct {
	OUs []model.OrganizationalUnit `validate:"dive"`
}

// ParseJSON decodes a single JSON array of {"id", "arn"} objects. Other keys
// on an OU object are ignored; anything after the array is an error.
func ParseJSON(data []byte) ([]model.OrganizationalUnit, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var ous []model.OrganizationalUnit
	if err := dec.Decode(&ous); err != nil {
		return nil, fmt.Errorf("invalid OU JSON: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("invalid OU JSON: unexpected data after the OU list")
	}
	if err := Validate(ous); err != nil {
		return nil, err
	}
	return ous, nil
}

// LoadFile reads a YAML (or JSON) inventory file, either a bare list of OUs
// or a File document.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read inventory: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return File{}, fmt.Errorf("parse inventory %s: %w", path, err)
	}
	if len(root.Content) == 0 {
		return File{}, fmt.Errorf("parse inventory %s: empty document", path)
	}

	var f File
	switch doc := root.Content[0]; doc.Kind {
	case yaml.SequenceNode:
		err = doc.Decode(&f.OrganizationalUnits)
	case yaml.MappingNode:
		err = doc.Decode(&f)
	default:
		err = fmt.Errorf("expected a list of OUs or a mapping, got %s", doc.Tag)
	}
	if err != nil {
		return File{}, fmt.Errorf("parse inventory %s: %w", path, err)
	}

	if err := Validate(f.OrganizationalUnits); err != nil {
		return File{}, fmt.Errorf("inventory %s: %w", path, err)
	}
	return f, nil
}

// Validate checks that every OU has an ID and an ARN.
func Validate(ous []model.OrganizationalUnit) error {
	if err := validate.Struct(ouList{OUs: ous}); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
