package pattern

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw      string
		negated  bool
		anchored bool
		dirOnly  bool
		body     string
	}{
		{"*.log", false, false, false, "*.log"},
		{"!keep.log", true, false, false, "keep.log"},
		{"node_modules/", false, false, true, "node_modules"},
		{"/build", false, true, false, "build"},
		{"!/dist/", true, true, true, "dist"},
		{"src/dist/", false, false, true, "src/dist"},
		{"!", true, false, false, ""},
		{"/", false, false, true, ""},
	}

	for _, test := range tests {
		p := Parse(test.raw)
		if p.Raw != test.raw {
			t.Errorf("Parse(%q).Raw = %q", test.raw, p.Raw)
		}
		if p.Negated != test.negated || p.AnchoredToRoot != test.anchored || p.DirectoryOnly != test.dirOnly {
			t.Errorf("Parse(%q) flags = negated:%v anchored:%v dirOnly:%v, expected %v %v %v",
				test.raw, p.Negated, p.AnchoredToRoot, p.DirectoryOnly, test.negated, test.anchored, test.dirOnly)
		}
		if p.body != test.body {
			t.Errorf("Parse(%q).body = %q, expected %q", test.raw, p.body, test.body)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern  string
		path     string
		expected bool
		desc     string
	}{
		// bare names match at any depth
		{".DS_Store", ".DS_Store", true, "bare name at root"},
		{".DS_Store", "a/b/.DS_Store", true, "bare name nested"},
		{".DS_Store", "a/.DS_Store.bak", false, "bare name is not a prefix match"},
		{"build", "src/build/output.txt", true, "bare name matches directory segment"},
		{"build", "rebuild.txt", false, "partial segment does not match"},

		// single star stays inside one segment
		{"*.log", "error.log", true, "extension glob"},
		{"*.log", "logs/2024/error.log", true, "extension glob nested"},
		{"*.log", "test.txt", false, "unrelated extension"},
		{"*.log", "error.log.txt", false, "extension must end the segment"},
		{"*.log", ".log", true, "star matches empty run"},
		{"src/*.js", "src/a/b.js", false, "star does not cross slash"},
		{"src/*.js", "src/b.js", true, "star inside segment"},

		// question mark
		{"file?.txt", "file1.txt", true, "question mark one char"},
		{"file?.txt", "file12.txt", false, "question mark exactly one char"},
		{"a?b", "a/b", false, "question mark does not match slash"},
		{"?.md", "é.md", true, "question mark matches one rune"},

		// directory marker
		{"node_modules/", "node_modules/pkg/index.js", true, "directory prefix"},
		{"node_modules/", "app/node_modules/pkg/index.js", true, "directory prefix nested"},
		{"node_modules/", "my-node_modules/x", false, "directory needs segment boundary"},
		{"node_modules/", "node_modules_old/x", false, "directory needs trailing boundary"},
		{"dist/", "dist/bundle.js", true, "dist directory"},
		{"dist/", "distant/file.js", false, "dist is not distant"},
		{"dist/", "src/app.ts", false, "unrelated path"},

		// anchoring
		{"/build", "build/out.o", true, "anchored at root"},
		{"/build", "src/build/out.o", false, "anchored does not match nested"},
		{"/src/*.js", "src/test.js", true, "anchored glob"},
		{"/src/*.js", "deep/src/test.js", false, "anchored glob wrong location"},
		{"dist/bundle.js", "dist/bundle.js", true, "internal slash at root"},
		{"dist/bundle.js", "web/dist/bundle.js", true, "internal slash is depth independent"},
		{"dist/bundle.js", "web/mydist/bundle.js", false, "internal slash respects segment start"},

		// double star
		{"**/logs", "logs", true, "leading double star zero segments"},
		{"**/logs", "a/b/logs/x.txt", true, "leading double star many segments"},
		{"a/**/b", "a/b", true, "middle double star zero segments"},
		{"a/**/b", "a/x/y/b", true, "middle double star many segments"},
		{"a/**/b", "a/x/y/c", false, "middle double star wrong tail"},
		{"logs/**", "logs/2024/01/app.log", true, "trailing double star"},
		{"a**z", "a/b/z", true, "inline double star crosses slash"},
		{"***", "anything/at/all", true, "triple star"},

		// escaping
		{"a+b.txt", "a+b.txt", true, "plus is literal"},
		{"a+b.txt", "aab.txt", false, "plus is not a quantifier"},
		{"v1.0", "v1x0", false, "dot is literal"},
		{"(draft)", "(draft)", true, "parentheses literal"},
		{"^x$", "^x$", true, "anchors literal"},
		{"a|b", "a", false, "alternation literal"},
		{"{a,b}", "{a,b}", true, "braces literal"},
		{"[abc].txt", "[abc].txt", true, "character class degrades to literal"},
		{"[abc].txt", "a.txt", false, "character class not interpreted"},
		{`\*.txt`, `\x.txt`, true, "escaped star degrades to literal backslash plus wildcard"},

		// negation does not affect the predicate
		{"!keep.log", "keep.log", true, "negated pattern still matches"},

		// empty bodies never match
		{"!", "anything", false, "bare bang"},
		{"/", "a/b", false, "bare slash"},
		{"!/", "a/b", false, "negated bare slash"},
	}

	for _, test := range tests {
		m := Compile(test.pattern)
		if got := m.Match(test.path); got != test.expected {
			t.Errorf("%s: pattern %q on path %q expected %v, got %v (regexp %q)",
				test.desc, test.pattern, test.path, test.expected, got, m.String())
		}
	}
}

func TestNegated(t *testing.T) {
	if Compile("*.log").Negated() {
		t.Error("Expected *.log not to be negated")
	}
	if !Compile("!keep.log").Negated() {
		t.Error("Expected !keep.log to be negated")
	}

	var m *Matcher
	if m.Negated() || m.Match("x") {
		t.Error("Expected nil matcher to be inert")
	}
}

func TestCompileWithCaseInsensitive(t *testing.T) {
	sensitive := Compile("*.LOG")
	insensitive := CompileWith("*.LOG", Options{CaseInsensitive: true})

	if sensitive.Match("debug.log") {
		t.Error("Expected case-sensitive matcher to reject debug.log")
	}
	if !insensitive.Match("debug.log") {
		t.Error("Expected case-insensitive matcher to accept debug.log")
	}
}

func TestCompileInvalidUTF8(t *testing.T) {
	m := Compile("bad\xffname")
	if m.Match("bad\xffname") {
		t.Error("Expected pattern with invalid UTF-8 to match nothing")
	}
}

func TestCompileAll(t *testing.T) {
	patterns := []string{"*.log", "!keep.log", "node_modules/"}
	matchers := CompileAll(patterns)

	if len(matchers) != len(patterns) {
		t.Fatalf("Expected %d matchers, got %d", len(patterns), len(matchers))
	}
	if !matchers[1].Negated() {
		t.Error("Expected second matcher to be negated")
	}
	if !matchers[2].Match("node_modules/a.js") {
		t.Error("Expected third matcher to match node_modules/a.js")
	}

	if got := CompileAll(nil); len(got) != 0 {
		t.Errorf("Expected no matchers for nil input, got %d", len(got))
	}
}

func TestMatchDeterministic(t *testing.T) {
	m := Compile("src/**/*.test.ts")
	first := m.Match("src/a/b/c.test.ts")
	for i := 0; i < 100; i++ {
		if m.Match("src/a/b/c.test.ts") != first {
			t.Fatal("Expected repeated matches to agree")
		}
	}
}
