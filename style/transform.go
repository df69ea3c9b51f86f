package style

import "strings"

// channelOrder is the canonical serialization order for transform channels:
// position, then scale, then rotation, then skew. Serializing in a fixed
// order keeps the visual result independent of the order channels were
// animated in.
var channelOrder = []string{
	"translateX", "translateY", "translateZ",
	"scale", "scaleX", "scaleY",
	"rotate",
	"skewX", "skewY",
}

var knownChannel = func() map[string]bool {
	m := make(map[string]bool, len(channelOrder))
	for _, c := range channelOrder {
		m[c] = true
	}
	return m
}()

// Combine sets one named channel in a composite transform descriptor and
// returns the re-serialized descriptor. Sibling channels already present in
// existing always survive; a leading run of terms that are not named
// channels (an externally authored matrix(...) or similar) is treated as an
// opaque base and preserved verbatim, prepended.
func Combine(existing, channel, value string) string {
	base, channels := parseDescriptor(existing)
	channels[channel] = value

	var b strings.Builder
	if base != "" {
		b.WriteString(base)
	}
	for _, name := range channelOrder {
		v, ok := channels[name]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteByte('(')
		b.WriteString(v)
		b.WriteByte(')')
	}
	return b.String()
}

// Channel reads the value of one named channel out of a composite transform
// descriptor. It reports false when the channel is not present.
func Channel(descriptor, channel string) (string, bool) {
	_, channels := parseDescriptor(descriptor)
	v, ok := channels[channel]
	return v, ok
}

// parseDescriptor splits a descriptor into its opaque base prefix and a map
// of named channel values.
func parseDescriptor(s string) (base string, channels map[string]string) {
	channels = make(map[string]string)
	var baseParts []string
	for _, term := range splitTerms(s) {
		open := strings.IndexByte(term, '(')
		if open > 0 && strings.HasSuffix(term, ")") {
			name := term[:open]
			if knownChannel[name] {
				channels[name] = term[open+1 : len(term)-1]
				continue
			}
		}
		baseParts = append(baseParts, term)
	}
	return strings.Join(baseParts, " "), channels
}

// splitTerms splits "matrix(1, 0, 0, 1, 0, 0) translateX(10px)" into terms,
// keeping parenthesized arguments (which may contain spaces) intact.
func splitTerms(s string) []string {
	var terms []string
	depth, start := 0, -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '(':
			depth++
		case c == ')':
			depth--
		case (c == ' ' || c == '\t') && depth == 0:
			if start >= 0 {
				terms = append(terms, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		terms = append(terms, s[start:])
	}
	return terms
}
