package format

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mithrel/leancanvas/pkg/canvas"
)

func WriteJSON(w io.Writer, r canvas.Record, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}

func WriteYAML(w io.Writer, r canvas.Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
