// Package extractor turns free-form property analysis text into typed
// PropertyAttributes. Extraction is a pure function of its input: rules are
// compiled once and never mutated, and every call builds a fresh result.
package extractor

import (
	"github.com/sirupsen/logrus"

	"propertylens/internal/models"
)

// Extraction is the result of one Extract call.
type Extraction struct {
	Attributes models.PropertyAttributes `json:"property"`
	Found      []models.Field            `json:"found"`
	// Sources names the rule that produced each found field.
	Sources map[models.Field]string `json:"sources"`
}

// Extractor runs the field rule tables over text.
type Extractor struct {
	logger *logrus.Logger
}

// New creates an Extractor. A nil logger falls back to the logrus standard logger.
func New(logger *logrus.Logger) *Extractor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Extractor{logger: logger}
}

// Extract searches text for every known field. Fields without a validator-passing
// candidate are left absent.
func (e *Extractor) Extract(text string) Extraction {
	result := Extraction{
		Found:   []models.Field{},
		Sources: make(map[models.Field]string),
	}

	prepared := prepareText(text)
	for _, fr := range fieldTable {
		name, ok := fr.match(prepared, &result.Attributes)
		if !ok {
			continue
		}
		result.Found = append(result.Found, fr.field)
		result.Sources[fr.field] = name
	}

	e.logger.WithFields(logrus.Fields{
		"text_length":  len(text),
		"fields_found": len(result.Found),
	}).Debug("Extracted property attributes")

	return result
}
