package require

import (
	"encoding/json"

	"github.com/stackb/cjs/pkg/folder"
)

// packageMain reads the package descriptor in dir and returns its main
// entry. A missing descriptor, one that fails to parse, and one without a
// string main entry all report false.
func (t *Thread) packageMain(dir folder.Folder) (string, bool) {
	if t.loader.descriptor == "" {
		return "", false
	}
	data, ok := dir.Read(t.loader.descriptor)
	if !ok {
		return "", false
	}
	var descriptor map[string]any
	if err := json.Unmarshal(data, &descriptor); err != nil {
		t.loader.logger.Warn().
			Err(err).
			Str("path", folder.Join(dir, t.loader.descriptor)).
			Msg("ignoring unparsable package descriptor")
		return "", false
	}
	main, ok := descriptor[t.loader.mainField].(string)
	if !ok || main == "" {
		return "", false
	}
	return main, true
}
