package validate

import (
	"net/url"
	"strings"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MaxLen(value string, limit int) bool {
	return len([]rune(value)) <= limit
}

func HTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
