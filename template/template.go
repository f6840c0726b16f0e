package template

import (
	"fmt"
	"regexp"

	"github.com/infigaming-com/queue-publisher/util"
)

// Evaluator expands a template string against an event's field map.
// Implementations must be safe for concurrent use.
type Evaluator interface {
	Expand(tmpl string, fields map[string]any) string
}

var fieldPattern = regexp.MustCompile(`\{([A-Za-z0-9_.]+)\}`)

// FieldEvaluator is the default Evaluator. Placeholders of the form
// {fieldName} are replaced with the matching field value rendered via %v;
// placeholders with no matching field expand to the empty string. Text
// outside placeholders is passed through verbatim, so a template without
// placeholders is a fixed literal.
type FieldEvaluator struct{}

func NewFieldEvaluator() FieldEvaluator {
	return FieldEvaluator{}
}

func (FieldEvaluator) Expand(tmpl string, fields map[string]any) string {
	if tmpl == "" {
		return tmpl
	}
	return fieldPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		value := util.GetMapValue[any](fields, name, nil)
		if value == nil {
			return ""
		}
		return fmt.Sprintf("%v", value)
	})
}
