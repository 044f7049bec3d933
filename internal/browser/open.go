// Package browser hands links off to the desktop: web pages for records
// and mailto links for engineers.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Open opens the specified URL in the user's default handler.
func Open(target string) error {
	cmd, err := command(runtime.GOOS, target)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}

// Mailto builds a mailto link with an optional subject.
func Mailto(address, subject string) string {
	u := url.URL{Scheme: "mailto", Opaque: address}
	if subject != "" {
		u.RawQuery = "subject=" + url.QueryEscape(subject)
	}
	return u.String()
}

// RecordURL joins the web app base with a record path, e.g.
// RecordURL("https://app.example.com/", "projects", "p1"). It returns ""
// when base is empty.
func RecordURL(base string, parts ...string) string {
	if base == "" {
		return ""
	}
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(escaped, "/")
}
