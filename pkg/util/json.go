package util

import (
	"encoding/json"
	"os"
)

// PrintPrettyJSON writes v to stdout as indented JSON, for --output json
// paths.
func PrintPrettyJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
