package lexer

import (
	"lector/internal/diag"
)

type Options struct {
	// DocComments extracts ///, //!, /** */ and /*! */.
	DocComments bool
	// DevComments extracts plain // and /* */ comments.
	DevComments bool
	Reporter    diag.Reporter // может быть nil — тогда ошибки только возвращаем
}

// DefaultOptions extracts documentation only.
func DefaultOptions() Options {
	return Options{DocComments: true}
}

func (o Options) wants(doc bool) bool {
	if doc {
		return o.DocComments
	}
	return o.DevComments
}
