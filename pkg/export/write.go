package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/spancal/pkg/errors"
)

// WriteJSON encodes doc as indented JSON and writes it to w.
// doc is normally a *[Config] or *[Layout].
func WriteJSON(doc any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeSerialization, err, "encode")
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc any, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}
