package present

import (
	"encoding/json"

	"github.com/webitel/social-dashboard/internal/domain/model"
)

// Preview pretty-prints the newest record for the raw-feed pane.
// A nil record yields an empty preview.
func Preview(rec *model.Record) (string, error) {
	if rec == nil {
		return "", nil
	}
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
