package smoke

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/mrsingh-rishi/voice-translate/client"
)

// ServiceStatus is the outcome of the two health probes.
type ServiceStatus struct {
	Backend  bool
	Frontend bool
}

func (s ServiceStatus) Ready() bool { return s.Backend && s.Frontend }

// Probe checks the backend's /translate route and the frontend root. Any
// HTTP answer counts as up.
func Probe(ctx context.Context, c *client.Client, frontendURL string) ServiceStatus {
	var st ServiceStatus
	if _, err := c.Ping(ctx, c.BaseURL+"/translate"); err == nil {
		st.Backend = true
	}
	if frontendURL != "" {
		if _, err := c.Ping(ctx, frontendURL); err == nil {
			st.Frontend = true
		}
	}
	return st
}

func onlineLabel(up bool) string {
	if up {
		return "🟢 ONLINE"
	}
	return "🔴 OFFLINE"
}

func port(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Port() == "" {
		return raw
	}
	return "Port " + u.Port()
}

// PrintStatus renders the status board.
func PrintStatus(w io.Writer, st ServiceStatus, backendURL, frontendURL string) {
	fmt.Fprintln(w, "📊 SERVICE STATUS:")
	fmt.Fprintf(w, "   Backend API (%s):     %s\n", port(backendURL), onlineLabel(st.Backend))
	fmt.Fprintf(w, "   Frontend App (%s):    %s\n", port(frontendURL), onlineLabel(st.Frontend))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "🔄 TRANSLATION PIPELINE:")
	fmt.Fprintln(w, "   Live Video/Audio → Speech-to-Text → Translation → TTS → Audio Output")
	fmt.Fprintln(w)
	if st.Ready() {
		fmt.Fprintln(w, "🚀 SYSTEM STATUS: FULLY OPERATIONAL!")
		fmt.Fprintf(w, "   → Open: %s\n", frontendURL)
		return
	}
	fmt.Fprintln(w, "⚠️  SYSTEM STATUS: NEEDS ATTENTION")
	if !st.Backend {
		fmt.Fprintln(w, "   → Start backend: cd backend && npm start")
	}
	if !st.Frontend {
		fmt.Fprintln(w, "   → Start frontend: cd frontend/frontend && npm start")
	}
}
