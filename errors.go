package preplan

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrTagValidation marks errors caused by invalid input such as an empty
	// PR name or a payload that does not satisfy the plan schema.
	ErrTagValidation = goerr.NewTag("validation")

	// ErrTagIO marks filesystem failures while persisting the plan. They are
	// fatal and never retried.
	ErrTagIO = goerr.NewTag("io")
)

var (
	ErrEmptyName      = goerr.New("empty PR name", goerr.Tag(ErrTagValidation))
	ErrAbsoluteOutput = goerr.New("output document must be repository-relative", goerr.Tag(ErrTagValidation))
	ErrUnquotablePath = goerr.New("path cannot be quoted for POSIX shell", goerr.Tag(ErrTagValidation))
)
