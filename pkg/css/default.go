package css

import "sync"

// defaultCSS is the user-agent stylesheet. Every element is a block unless
// listed as inline here; metadata elements are not rendered.
const defaultCSS = `
* { display: block; }

a, abbr, b, bdi, bdo, big, br, cite, code, data, dfn, em, font, i, img, kbd,
label, mark, q, s, samp, small, span, strike, strong, sub, sup, time, tt, u,
var { display: inline; }

head, style, script, title, meta, link, noscript, template { display: none; }

html, body { margin: 0; padding: 0; }

h1 { font-size: 2em; font-weight: bold; }
h2 { font-size: 1.5em; font-weight: bold; }
h3 { font-size: 1.17em; font-weight: bold; }
h4 { font-weight: bold; }
h5 { font-size: 0.83em; font-weight: bold; }
h6 { font-size: 0.67em; font-weight: bold; }

b, strong, th { font-weight: bold; }
i, em, cite, var, dfn { font-style: italic; }
center { text-align: center; }

a { color: #0645ad; text-decoration: underline; }
u { text-decoration: underline; }
s, strike { text-decoration: line-through; }
`

var (
	defaultOnce  sync.Once
	defaultSheet *Stylesheet
)

// DefaultStylesheet returns the parsed user-agent stylesheet. The result is
// shared and must not be modified.
func DefaultStylesheet() *Stylesheet {
	defaultOnce.Do(func() {
		defaultSheet = MustParseStylesheet(defaultCSS)
	})
	return defaultSheet
}

// DefaultRules returns a copy of the user-agent rules.
func DefaultRules() []Rule {
	return append([]Rule(nil), DefaultStylesheet().Rules...)
}
