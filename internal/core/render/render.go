// Package render executes text templates against typed data.
//
// Templates get the sprig function map, so they can use join, toJson,
// indent and friends on the generator data.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig"
)

// ErrTemplate is returned when a template cannot be parsed or executed.
var ErrTemplate = errors.New("template error")

// TemplateError wraps errors with the template name and the failing stage.
type TemplateError struct {
	Name  string // e.g., "Dockerfile.tmpl"
	Stage string // "parse" or "execute"
	Err   error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s template %s: %v", e.Stage, e.Name, e.Err)
}

func (e *TemplateError) Unwrap() []error {
	return []error{ErrTemplate, e.Err}
}

// Render parses text as a template called name and executes it with data.
// This is a pure function - the same inputs always yield the same output.
func Render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return "", &TemplateError{Name: name, Stage: "parse", Err: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &TemplateError{Name: name, Stage: "execute", Err: err}
	}
	return buf.String(), nil
}
