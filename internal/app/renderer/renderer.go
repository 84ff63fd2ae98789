// Package renderer bridges templ components into gin's HTML render path so
// handlers can write c.HTML(status, "", component).
package renderer

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// HTMLTemplRenderer renders templ components and falls back to gin's default
// HTML renderer for anything else.
type HTMLTemplRenderer struct {
	FallbackHTMLRenderer render.HTMLRender
}

func (r *HTMLTemplRenderer) Instance(name string, data any) render.Render {
	component, ok := data.(templ.Component)
	if !ok {
		if r.FallbackHTMLRenderer != nil {
			return r.FallbackHTMLRenderer.Instance(name, data)
		}
		component = nil
	}
	return &Renderer{Ctx: context.Background(), Status: -1, Component: component}
}

// Renderer renders a single templ component.
type Renderer struct {
	Ctx       context.Context
	Status    int
	Component templ.Component
}

// New builds a renderer bound to the request context.
func New(c *gin.Context, status int, component templ.Component) *Renderer {
	return &Renderer{Ctx: c.Request.Context(), Status: status, Component: component}
}

func (t *Renderer) Render(w http.ResponseWriter) error {
	t.WriteContentType(w)
	if t.Status != -1 {
		w.WriteHeader(t.Status)
	}
	if t.Component != nil {
		return t.Component.Render(t.Ctx, w)
	}
	return nil
}

func (t *Renderer) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}
