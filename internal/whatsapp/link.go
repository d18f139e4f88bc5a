// Package whatsapp builds click-to-chat deep links and records the orders
// handed to the messaging app.
package whatsapp

import (
	"strings"
)

// DefaultHost is the public click-to-chat host.
const DefaultHost = "wa.me"

const upperhex = "0123456789ABCDEF"

// NormalizePhone keeps only the digits of phone. A leading '+' or any
// formatting characters are dropped.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for i := 0; i < len(phone); i++ {
		if c := phone[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// JID renders the user JID of a phone number, e.g. "6281234@s.whatsapp.net".
func JID(phone string) string {
	return NormalizePhone(phone) + "@s.whatsapp.net"
}

// DeepLink builds https://<host>/<digits>?text=<escaped text>. host may carry
// its own scheme.
func DeepLink(host, phone, text string) string {
	if host == "" {
		host = DefaultHost
	}
	host = strings.TrimRight(host, "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return host + "/" + NormalizePhone(phone) + "?text=" + EscapeComponent(text)
}

// EscapeComponent percent-encodes s for use as a single URI component. Only
// ALPHA, DIGIT and -_.!~*'() are left as is; spaces become %20.
func EscapeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	buf := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			buf = append(buf, c)
			continue
		}
		buf = append(buf, '%', upperhex[c>>4], upperhex[c&15])
	}
	return string(buf)
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
