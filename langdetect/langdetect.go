// Package langdetect tags transcripts with the language they appear to be
// written in.
package langdetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Detector identifies the language of a piece of text.
type Detector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// New returns a Detector. The underlying models are loaded lazily on the
// first call to Detect, since they are large and dictation may never need
// them when a language is forced in configuration.
func New() *Detector {
	return &Detector{}
}

func (d *Detector) init() {
	d.detector = lingua.NewLanguageDetectorBuilder().
		FromAllSpokenLanguages().
		WithLowAccuracyMode().
		Build()
}

// Detect returns the ISO 639-1 code (for example "en") of the text's likely
// language, or "" when no confident guess exists.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	d.once.Do(d.init)

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

// DisplayName renders a language code as an English name, for example
// "en" to "English". Unknown codes are returned unchanged.
func DisplayName(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return name
}
