package batch

import (
	"encoding/json"
	"os"

	"tds-scene/internal/tds"
)

// ManifestEntry represents one rendered model in the output manifest.
type ManifestEntry struct {
	Model     string   `json:"model"`
	Image     string   `json:"image"`
	Objects   int      `json:"objects"`
	Materials int      `json:"materials"`
	Vertices  int      `json:"vertices"`
	Triangles int      `json:"triangles"`
	Warnings  []string `json:"warnings,omitempty"`
}

// WriteManifest writes the successful results to path as JSON.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, newEntry(r.Model, r.Image, r.Stats, r.Warnings))
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func newEntry(model, image string, st tds.Stats, warnings []string) ManifestEntry {
	return ManifestEntry{
		Model:     model,
		Image:     image,
		Objects:   st.Objects,
		Materials: st.Materials,
		Vertices:  st.Vertices,
		Triangles: st.Triangles,
		Warnings:  warnings,
	}
}
