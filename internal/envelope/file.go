package envelope

import (
	"bytes"
	"encoding/json"
	"os"

	kerrors "cfgseal/internal/errors"

	"github.com/pkg/errors"
)

// WriteContainer writes c as indented JSON in a single write. Nothing is
// written if encoding fails.
func WriteContainer(path string, c *Container) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot marshal container")
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "cannot write container to %s", path)
	}
	return nil
}

// ReadContainer reads a container file and validates its fields.
func ReadContainer(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read container %s", path)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var c Container
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Wrapf(kerrors.ErrInvalidContainer, "cannot parse %s: %v", path, err)
	}
	if _, err := c.Envelope(); err != nil {
		return nil, err
	}
	return &c, nil
}
