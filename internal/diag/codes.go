package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Орфография
	SpellInfo        Code = 1000
	SpellUnknownWord Code = 1001
	SpellRepeatWord  Code = 1002
	SpellDummy       Code = 1003

	// Грамматика (резервируем под внешние чекеры)
	GramInfo  Code = 2000
	GramRule  Code = 2001
	GramStyle Code = 2002

	// Перенос строк
	FlowInfo        Code = 3000
	FlowLineTooLong Code = 3001

	// Внутренние и файловые ошибки
	IntInfo             Code = 4000
	IOLoadFileError     Code = 4001
	IOWriteFileError    Code = 4002
	IntMalformedLiteral Code = 4003
	IntSpanResolution   Code = 4004
	IntStalePatch       Code = 4005
	IntCheckerFailure   Code = 4006
	IntCancelled        Code = 4007
	IntPatchConflict    Code = 4008

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		SpellInfo:           "Spelling information",
		SpellUnknownWord:    "Unknown word",
		SpellRepeatWord:     "Repeated word",
		SpellDummy:          "Flagged by dummy checker",
		GramInfo:            "Grammar information",
		GramRule:            "Grammar rule violation",
		GramStyle:           "Style suggestion",
		FlowInfo:            "Reflow information",
		FlowLineTooLong:     "Comment line exceeds the maximum width",
		IntInfo:             "Internal information",
		IOLoadFileError:     "I/O load file error",
		IOWriteFileError:    "I/O write file error",
		IntMalformedLiteral: "Malformed comment literal",
		IntSpanResolution:   "Suggestion range does not map to the file",
		IntStalePatch:       "File changed since it was checked",
		IntCheckerFailure:   "Checker failed",
		IntCancelled:        "Run cancelled",
		IntPatchConflict:    "Conflicting correction skipped",
		ObsInfo:             "Observability information",
		ObsTimings:          "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SPL%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("GRM%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RFL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("INT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Fatal reports whether a diagnostic with this code excludes its file from correction.
func (c Code) Fatal() bool {
	switch c {
	case IOLoadFileError, IOWriteFileError, IntMalformedLiteral, IntStalePatch:
		return true
	}
	return false
}
