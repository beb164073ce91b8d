package util

import (
	"encoding/json"
	"fmt"
	"io"
)

// Pprint writes i as indented json
func Pprint(w io.Writer, i interface{}) error {
	bytes, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bytes))
	return err
}
