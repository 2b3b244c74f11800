package helpers

import (
	"strings"
	"unicode"
)

// SplitArgs splits $text into at most $n arguments. Words in quotes stay together,
// the last argument keeps everything that is left with the quotes removed.
func SplitArgs(text string, n int) (args []string) {
	text = strings.TrimSpace(text)
	for text != "" && (n <= 0 || len(args) < n-1) {
		arg, rest := nextArg(text)
		args = append(args, arg)
		text = strings.TrimSpace(rest)
	}
	if text != "" {
		args = append(args, unquote(text))
	}
	return args
}

func nextArg(text string) (arg, rest string) {
	if quote, size := firstRune(text); unicode.In(quote, unicode.Quotation_Mark) {
		if end := strings.IndexRune(text[size:], quote); end >= 0 {
			return text[size : size+end], text[size+end+size:]
		}
	}
	if end := strings.IndexFunc(text, unicode.IsSpace); end >= 0 {
		return text[:end], text[end:]
	}
	return text, ""
}

// unquote only strips quotes that enclose all of $text
func unquote(text string) string {
	first, size := firstRune(text)
	if len(text) < 2*size || !unicode.In(first, unicode.Quotation_Mark) || !strings.HasSuffix(text, string(first)) {
		return text
	}
	inner := text[size : len(text)-size]
	if strings.ContainsRune(inner, first) {
		return text
	}
	return inner
}

func firstRune(text string) (r rune, size int) {
	for _, r := range text {
		return r, len(string(r))
	}
	return 0, 0
}
