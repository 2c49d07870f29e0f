package errors

import (
	"encoding/json"
	stderrors "errors"

	"github.com/vango-dev/docroutes/internal/live"
	"github.com/vango-dev/docroutes/pkg/codec"
	"github.com/vango-dev/docroutes/pkg/query"
	"github.com/vango-dev/docroutes/pkg/router"
	"github.com/vango-dev/docroutes/pkg/routetable"
	"github.com/vango-dev/docroutes/pkg/source"
	"gopkg.in/yaml.v3"
)

// Classify turns library errors into coded errors. Errors that are already
// coded are returned unchanged; anything unrecognized becomes E999.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var coded *Error
	if stderrors.As(err, &coded) {
		return coded
	}

	var (
		syntaxErr *codec.SyntaxError
		multi     *routetable.MultiValidationError
		jsonType  *json.UnmarshalTypeError
		yamlType  *yaml.TypeError
	)

	switch {
	case stderrors.As(err, &multi):
		return FromValidation(multi)
	case stderrors.As(err, &syntaxErr):
		return New("E202").Wrap(err).
			WithDetail(syntaxErr.Message).
			WithSuggestion("Regenerate the site or check the file for manual edits")
	case stderrors.Is(err, codec.ErrInvalidUTF8):
		return New("E205").Wrap(err).
			WithDetail("The document contains bytes that are not valid UTF-8.").
			WithSuggestion("Re-save the file as UTF-8")
	case stderrors.As(err, &jsonType), stderrors.As(err, &yamlType):
		return New("E205").Wrap(err)
	case stderrors.Is(err, source.ErrNotFound):
		return New("E201").Wrap(err).
			WithSuggestion("Run the site build first, or point --source at the generated routes.js")
	case stderrors.Is(err, source.ErrTooLarge):
		return New("E203").Wrap(err).
			WithSuggestion("Raise maxSize in docroutes.yaml")
	case stderrors.Is(err, source.ErrUnsupportedScheme):
		return New("E206").Wrap(err).
			WithSuggestion("Use a file path, file:// or s3:// location")
	case stderrors.Is(err, codec.ErrUnknownFormat):
		return New("E204").Wrap(err).
			WithSuggestion("Pass --format js|json|yaml|toml")
	case stderrors.Is(err, query.ErrInvalidExpression):
		return New("E302").Wrap(err).
			WithExample("$..[?(@.sidebar == 'tutorialSidebar')].path")
	case stderrors.Is(err, router.ErrInvalidPath):
		return New("E401").Wrap(err)
	case stderrors.Is(err, router.ErrNoMatch):
		return New("E402").Wrap(err).
			WithSuggestion("Add a trailing '*' route to the table")
	case stderrors.Is(err, live.ErrNotLoaded):
		return New("E503").Wrap(err)
	default:
		return New("E999").Wrap(err)
	}
}

// FromValidation reports every validation finding as a context line.
func FromValidation(multi *routetable.MultiValidationError) *Error {
	lines := make([]string, 0, len(multi.Errors))
	for _, v := range multi.Errors {
		lines = append(lines, v.Error())
	}
	return New("E301").WithFindings(lines).Wrap(multi)
}

// FromSyntax points a syntax error at its position in the named document,
// with the surrounding lines of data.
func FromSyntax(err *codec.SyntaxError, name string, data []byte) *Error {
	return New("E202").
		Wrap(err).
		WithDetail(err.Message).
		WithSource(name, data, err.Line, err.Column)
}
