package emitter

import "strings"

// IndentText prepends n spaces to every non-empty line of s (empty lines
// stay empty), the formatting helper
// every concrete Backend's section builders use to nest declarations inside
// the enclosing module/control blocks. Grounded on vslc/src/util/io.go's
// Writer, which builds emitted text through a strings.Builder rather than
// manual byte concatenation; unlike Writer, which buffers concurrent worker
// output over a channel for vslc's parallel code generator, this helper is
// a pure function (the emitter itself is stateless and never needs
// cross-goroutine buffering).
func IndentText(s string, n int) string {
	if s == "" {
		return s
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if l == "" {
			continue
		}
		b.WriteString(pad)
		b.WriteString(l)
	}
	return b.String()
}
