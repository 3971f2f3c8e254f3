package templates

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"unicode"
)

// TemplateUtils provides the helper functions available inside templates
type TemplateUtils struct{}

// NewTemplateUtils creates a new TemplateUtils
func NewTemplateUtils() *TemplateUtils {
	return &TemplateUtils{}
}

// FuncMap returns the helpers keyed by their template name
func (tu *TemplateUtils) FuncMap() template.FuncMap {
	return template.FuncMap{
		"quote":       tu.QuoteString,
		"quoteList":   tu.JoinQuoted,
		"logf":        tu.LogMessage,
		"invoke":      tu.Invoke,
		"toCamelCase": tu.ToCamelCase,
	}
}

// QuoteString returns s as a Go string literal
func (tu *TemplateUtils) QuoteString(s string) string {
	return strconv.Quote(s)
}

// JoinQuoted renders items as comma separated Go string literals
func (tu *TemplateUtils) JoinQuoted(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = strconv.Quote(item)
	}
	return strings.Join(quoted, ", ")
}

// LogMessage formats a log line and returns it as a Go string literal
func (tu *TemplateUtils) LogMessage(format string, args ...any) string {
	return strconv.Quote(fmt.Sprintf(format, args...))
}

// Invoke renders a call statement. When the callee returns an error the
// statement returns failure, an expression over err.
func (tu *TemplateUtils) Invoke(returnsError bool, call, failure string) string {
	if !returnsError {
		return call
	}
	return fmt.Sprintf("if err := %s; err != nil {\n\t\treturn %s\n\t}", call, failure)
}

// ToCamelCase converts a marker name such as "side-bar" or "side_bar" into
// sideBar. Names starting with a digit get an underscore prefix.
func (tu *TemplateUtils) ToCamelCase(s string) string {
	var b strings.Builder
	upper := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if b.Len() == 0 {
				if unicode.IsDigit(r) {
					b.WriteRune('_')
				}
				b.WriteRune(unicode.ToLower(r))
			} else if upper {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(r)
			}
			upper = false
		default:
			upper = b.Len() > 0
		}
	}
	return b.String()
}
