package site

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vkazarin/clinicdesk/internal/pkg/ctxlog"
)

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | Bright Smile Dental Clinic</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 46rem; margin: 0 auto; padding: 1rem; color: #222; }
nav a { margin-right: 1rem; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
form label { display: block; margin-top: 0.8rem; }
input, textarea { width: 100%; padding: 0.4rem; }
button { margin-top: 1rem; padding: 0.5rem 1.2rem; }
</style>
</head>
<body>
<nav>
<a href="/">Home</a>
<a href="/about">About</a>
<a href="/contact">Contact</a>
</nav>
<main>
{{.Content}}
{{if .ShowContactForm}}
<form id="contact-form">
<label>Name <input name="name" required maxlength="128"></label>
<label>Email <input name="email" type="email" required maxlength="254"></label>
<label>Message <textarea name="message" rows="6" required maxlength="4000"></textarea></label>
<button type="submit">Send message</button>
<p id="contact-result"></p>
</form>
<script>
document.getElementById("contact-form").addEventListener("submit", async (e) => {
	e.preventDefault();
	const form = e.target;
	const result = document.getElementById("contact-result");
	const resp = await fetch("/contact", {
		method: "POST",
		headers: {"Content-Type": "application/json"},
		body: JSON.stringify({
			name: form.name.value,
			email: form.email.value,
			message: form.message.value,
		}),
	});
	if (resp.ok) {
		form.reset();
		result.textContent = "Thank you, we received your message.";
	} else {
		result.textContent = "Something went wrong, please try again.";
	}
});
</script>
{{end}}
</main>
</body>
</html>
`

// Handler serves the rendered site pages.
type Handler struct {
	pages  map[string]*Page
	layout *template.Template
}

// NewHandler creates a site handler from the embedded pages.
func NewHandler() (*Handler, error) {
	pages, err := LoadPages()
	if err != nil {
		return nil, err
	}

	layout, err := template.New("layout").Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse site layout: %w", err)
	}

	return &Handler{pages: pages, layout: layout}, nil
}

// RegisterRoutes registers the public page routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.page("home"))
	r.Get("/about", h.page("about"))
	r.Get("/contact", h.page("contact"))
}

type pageData struct {
	Title           string
	Content         template.HTML
	ShowContactForm bool
}

func (h *Handler) page(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := h.pages[slug]
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")

		data := pageData{
			Title:           page.Title,
			Content:         page.Content,
			ShowContactForm: slug == "contact",
		}
		if err := h.layout.Execute(w, data); err != nil {
			ctxlog.FromContext(r.Context()).Error("failed to render page", "slug", slug, "error", err)
		}
	}
}
