package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"simple keyword", `(sphere :radius 2)`, `(sphere "__kw_radius" 2)`},
		{"multiple keywords", `(cylinder :height 4 :radius 1)`, `(cylinder "__kw_height" 4 "__kw_radius" 1)`},
		{"keyword in string preserved", `"thing with :keyword inside"`, `"thing with :keyword inside"`},
		{"escaped quote in string", `"say \":hi\"" :at`, `"say \":hi\"" "__kw_at"`},
		{"backtick string preserved", "`raw :kw left-wing`", "`raw :kw left-wing`"},
		{"assignment operator preserved", `(def x := 10)`, `(def x := 10)`},
		{"kebab-case identifier", `(def left-wing 1)`, `(def left_wing 1)`},
		{"minus operator preserved", `(- 10 5)`, `(- 10 5)`},
		{"negative literal preserved", `(vec3 -1 0 -2.5)`, `(vec3 -1 0 -2.5)`},
		{"subtraction of symbols", `(- a b)`, `(- a b)`},
		{"double semicolon comment", `;; comment with :keyword`, `// comment with :keyword`},
		{"single semicolon comment", "(obj \"a\") ; trailing\n(obj \"b\")", "(obj \"a\") // trailing\n(obj \"b\")"},
		{"hyphen in keyword preserved", `:head-dia`, `"__kw_head-dia"`},
		{"unterminated string", `"open :kw`, `"open :kw`},
		{"lone colon", `( : )`, `( : )`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, preprocessSource(tt.input))
		})
	}
}
