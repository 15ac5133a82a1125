package web

import (
	"embed"
	"fmt"
	"net/http"
)

//go:embed pages/*.html
var pages embed.FS

// Handler serves the embedded HTML pages.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) servePage(w http.ResponseWriter, name string) {
	data, err := pages.ReadFile("pages/" + name)
	if err != nil {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

// GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, "home.html")
}

// GET /dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, "dashboard.html")
}

// GET /api/auth/oauth/{provider}
//
// Static informational page; no OAuth exchange is performed.
func (h *Handler) OAuthPlaceholder(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	switch provider {
	case "google", "microsoft", "apple":
	default:
		http.Error(w, "unknown provider", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>SkillSwap</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
<h2>Sign in with %s is not available yet</h2>
<p>Please register with your email address instead.</p>
<p><a href="/">Back to SkillSwap</a></p>
</body>
</html>`, provider)
}
