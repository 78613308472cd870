package utils

import (
	"regexp"
	"strings"
)

// Admin-authored CMS/guide HTML carries no classes of its own. Tags that
// already have a class attribute are left untouched.
var contentClasses = map[string]string{
	"h2":         "content-heading",
	"h3":         "content-subheading",
	"p":          "content-paragraph",
	"ul":         "content-list",
	"ol":         "content-list",
	"blockquote": "content-quote",
	"table":      "table",
	"code":       "content-code",
	"pre":        "content-pre",
	"a":          "content-link",
}

var contentTagPattern = regexp.MustCompile(`<(h2|h3|p|ul|ol|blockquote|table|code|pre|a)(\s[^>]*)?>`)

// ProcessHTMLContent decorates rendered CMS content with the stylesheet's
// content classes.
func ProcessHTMLContent(content string) string {
	return contentTagPattern.ReplaceAllStringFunc(content, func(tag string) string {
		m := contentTagPattern.FindStringSubmatch(tag)
		name, attrs := m[1], m[2]
		if strings.Contains(attrs, "class=") {
			return tag
		}
		return "<" + name + attrs + ` class="` + contentClasses[name] + `">`
	})
}
