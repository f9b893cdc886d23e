package document

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// WriteXML writes v as an XML document whose root element is named root.
//
// Objects become an element per member, arrays an element per item named after the
// array's element plus "Record", and scalars become text. Each nesting level is
// indented by one tab.
func WriteXML(w io.Writer, root string, v Value) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(xmlHeader)
	writeElement(bw, root, v, 0)
	return bw.Flush()
}

func writeElement(w *bufio.Writer, name string, v Value, depth int) {
	indent := strings.Repeat("\t", depth)
	tag := ElementName(name)

	switch v.kind {
	case KindObject:
		w.WriteString(indent + "<" + tag + ">\n")
		for _, m := range v.obj.members {
			writeElement(w, m.Key, m.Value, depth+1)
		}
		w.WriteString(indent + "</" + tag + ">\n")
	case KindArray:
		w.WriteString(indent + "<" + tag + ">\n")
		for _, item := range v.arr {
			writeElement(w, name+"Record", item, depth+1)
		}
		w.WriteString(indent + "</" + tag + ">\n")
	default:
		w.WriteString(indent + "<" + tag + ">")
		w.WriteString(EscapeText(v.Text()))
		w.WriteString("</" + tag + ">\n")
	}
}

// EscapeText escapes the five XML special characters and replaces characters XML 1.0
// does not allow with U+FFFD.
func EscapeText(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return !isXMLChar(r) }) >= 0 {
		s = strings.Map(func(r rune) rune {
			if isXMLChar(r) {
				return r
			}
			return utf8.RuneError
		}, s)
	}
	return textEscaper.Replace(s)
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r == utf8.RuneError:
		return true
	case r < 0x20:
		return false
	case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
		return false
	}
	return r <= unicode.MaxRune
}

// ElementName turns an arbitrary table or field name into a valid XML element name.
// Valid names are returned unchanged; other characters become '_' and a name that
// cannot start an element gets a leading '_'.
func ElementName(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0 && !isNameStart(r):
			b.WriteRune('_')
			if isNameChar(r) {
				b.WriteRune(r)
			}
		case isNameChar(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || r == '-' || r == '.'
}
