package gmail

import (
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	gmailapi "google.golang.org/api/gmail/v1"
)

// partCharset extracts the declared charset from a part's Content-Type
// header, if any.
func partCharset(part *gmailapi.MessagePart) string {
	for _, header := range part.Headers {
		if !strings.EqualFold(header.Name, "Content-Type") {
			continue
		}
		if _, params, err := mime.ParseMediaType(header.Value); err == nil {
			return params["charset"]
		}
	}
	return ""
}

// decodeText decodes raw body bytes into a string without ever failing:
// declared charset first, then UTF-8 if the bytes validate, then Latin-1
// (common for Brazilian mail servers), then UTF-8 with replacement runes.
func decodeText(data []byte, charset string) string {
	if charset != "" {
		if enc, err := ianaindex.MIME.Encoding(charset); err == nil && enc != nil {
			if out, err := enc.NewDecoder().Bytes(data); err == nil {
				return string(out)
			}
		}
	}
	if utf8.Valid(data) {
		return string(data)
	}
	if out, err := charmap.ISO8859_1.NewDecoder().Bytes(data); err == nil {
		return string(out)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
