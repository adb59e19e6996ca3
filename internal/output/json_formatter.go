package output

import (
	json "github.com/goccy/go-json"

	"github.com/box3check/box3-engine/internal/domain"
)

// JSONFormatter serializes the dossier assessment as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(assessment *domain.DossierAssessment) ([]byte, error) {
	return json.MarshalIndent(assessment, "", "  ")
}
