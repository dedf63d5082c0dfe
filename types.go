package booksearch

import "github.com/hupe1980/booksearch/model"

// Aliases for the model types, so callers of the facade need only this package.
type (
	Mode    = model.Mode
	Result  = model.Result
	Segment = model.Segment
	Chapter = model.Chapter
)

const (
	ModeAll     = model.ModeAll
	ModeWord    = model.ModeWord
	ModePhrase  = model.ModePhrase
	ModeChapter = model.ModeChapter
	ModeVerse   = model.ModeVerse
)

// ParseMode parses a case-insensitive mode name; "" selects ModeAll.
func ParseMode(s string) (Mode, error) {
	return model.ParseMode(s)
}
