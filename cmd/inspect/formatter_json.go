package inspect

import (
	"encoding/json"
	"io"

	"github.com/LegacyCodeHQ/localize/transform"
)

func writeJSON(w io.Writer, files []fileEntries) error {
	entries := []transform.Entry{}
	for _, f := range files {
		entries = append(entries, f.entries...)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
