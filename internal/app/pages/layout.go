// Package pages holds the templ components for every ServoMart screen. Each
// page component renders only its main content; LayoutPage wraps it with the
// document shell, navigation and the session alert banners.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/servomart/servomart/internal/app/models"
)

// LayoutPage renders the full HTML document around a page component.
func LayoutPage(data models.LayoutTempl) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/><title>%s | ServoMart</title><link rel="stylesheet" href="/assets/css/output.css"/></head><body class="%s">`,
			esc(data.Title), cx("min-h-screen", "bg-gray-50", "text-gray-900", "flex", "flex-col")); err != nil {
			return err
		}
		if err := navbar(data).Render(ctx, w); err != nil {
			return err
		}
		if err := alertBanners(data.Alerts).Render(ctx, w); err != nil {
			return err
		}
		if err := el(w, `<main class="flex-1 mx-auto w-full max-w-6xl px-4 py-8">`); err != nil {
			return err
		}
		if data.Content != nil {
			if err := data.Content.Render(ctx, w); err != nil {
				return err
			}
		}
		if err := el(w, `</main>`); err != nil {
			return err
		}
		if err := footer().Render(ctx, w); err != nil {
			return err
		}
		return el(w, `</body></html>`)
	})
}

func navbar(data models.LayoutTempl) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<header class="bg-white border-b border-gray-200"><nav class="mx-auto max-w-6xl px-4 py-3 flex items-center gap-6"><a href="/" class="text-lg font-semibold tracking-tight">ServoMart</a>`); err != nil {
			return err
		}
		for _, item := range data.Nav.Items {
			classes := cx("text-sm", "text-gray-600", "hover:text-gray-900")
			if item.Name == data.ActiveNav {
				classes = cx(classes, "text-gray-900", "font-medium", "underline")
			}
			if err := el(w, `<a href="%s" class="%s">%s</a>`, esc(item.URL), classes, esc(item.Name)); err != nil {
				return err
			}
		}
		if err := el(w, `<div class="ml-auto flex items-center gap-4">`); err != nil {
			return err
		}
		if data.User != nil {
			if data.User.IsSeller {
				if err := el(w, `<a href="/sell/dashboard" class="text-sm text-gray-600 hover:text-gray-900">Sell</a>`); err != nil {
					return err
				}
			}
			if err := el(w, `<a href="/account" class="text-sm text-gray-600 hover:text-gray-900">%s</a><a href="/logout" class="text-sm text-gray-600 hover:text-gray-900">Sign out</a>`,
				esc(data.User.Name)); err != nil {
				return err
			}
		} else {
			if err := el(w, `<a href="/login" class="text-sm text-gray-600 hover:text-gray-900">Sign in</a><a href="/signup/" class="text-sm rounded bg-gray-900 px-3 py-1.5 text-white hover:bg-gray-700">Sign up</a>`); err != nil {
				return err
			}
		}
		return el(w, `</div></nav></header>`)
	})
}

func alertBanners(alerts []models.Alert) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if len(alerts) == 0 {
			return nil
		}
		if err := el(w, `<div class="mx-auto w-full max-w-6xl px-4 pt-4 space-y-2" data-alerts="%d">`, len(alerts)); err != nil {
			return err
		}
		for _, a := range alerts {
			tone := cx("border-blue-200", "bg-blue-50", "text-blue-900")
			switch a.Severity {
			case models.AlertSuccess:
				tone = cx("border-green-200", "bg-green-50", "text-green-900")
			case models.AlertError:
				tone = cx("border-red-200", "bg-red-50", "text-red-900")
			}
			if err := el(w, `<div class="%s" data-alert-id="%s" data-alert-severity="%s"><span>%s</span><form method="post" action="/alerts/%s/dismiss" class="inline"><button type="submit" class="ml-2 font-medium underline" aria-label="Dismiss">Dismiss</button></form></div>`,
				cx("flex", "items-center", "justify-between", "rounded", "border", "px-4", "py-2", "text-sm", tone),
				esc(a.ID.String()), esc(string(a.Severity)), esc(a.Message), esc(a.ID.String())); err != nil {
				return err
			}
		}
		return el(w, `</div>`)
	})
}

func footer() templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return el(w, `<footer class="border-t border-gray-200 bg-white"><div class="mx-auto max-w-6xl px-4 py-6 flex items-center gap-6 text-sm text-gray-500"><span>&copy; ServoMart</span><a href="/about" class="hover:text-gray-900">About</a><a href="/tos" class="hover:text-gray-900">Terms of Service</a><a href="/privacy" class="hover:text-gray-900">Privacy</a><a href="/research" class="hover:text-gray-900">Research</a></div></footer>`)
	})
}
