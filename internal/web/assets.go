package web

import (
	_ "embed"
	"fmt"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

//go:embed assets/index.html
var indexHTML []byte

// minifiedIndex returns the embedded page with its inline styles and
// scripts minified.
func minifiedIndex() ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)

	out, err := m.Bytes("text/html", indexHTML)
	if err != nil {
		return nil, fmt.Errorf("minify index: %w", err)
	}
	return out, nil
}
