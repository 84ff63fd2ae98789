package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/servomart/servomart/internal/app/models"
)

// TerminalListPage lists the robots the viewer can open a terminal to.
func TerminalListPage(robots []models.Listing) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="terminal"><h1 class="text-2xl font-semibold">Terminal</h1><p class="mt-2 text-gray-600">Open a live shell to a robot you own.</p>`); err != nil {
			return err
		}
		if len(robots) == 0 {
			if err := el(w, `<p class="mt-4 text-gray-600">No connected robots. Purchased hardware shows up here once registered.</p>`); err != nil {
				return err
			}
		} else {
			if err := el(w, `<ul class="mt-4 divide-y divide-gray-200 rounded border border-gray-200 bg-white">`); err != nil {
				return err
			}
			for _, r := range robots {
				if err := el(w, `<li class="flex items-center justify-between px-4 py-3 text-sm"><span class="font-medium">%s</span><a href="/terminal/%s" class="underline">Connect</a></li>`,
					esc(r.Title), esc(r.ID.String())); err != nil {
					return err
				}
			}
			if err := el(w, `</ul>`); err != nil {
				return err
			}
		}
		return el(w, `</section>`)
	})
}

// TerminalSessionPage hosts the websocket-backed shell for one robot.
func TerminalSessionPage(robotID string) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return el(w, `<section data-page="terminal-session" data-robot-id="%s"><h1 class="text-2xl font-semibold">Terminal</h1><div id="term" class="mt-4 h-96 overflow-auto rounded bg-gray-900 p-4 font-mono text-sm text-green-400" data-ws-url="/ws/terminal/%s">Connecting&hellip;</div><form id="term-input" class="mt-2 flex gap-2"><input name="command" autocomplete="off" class="%s" placeholder="Command"/><button type="submit" class="rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">Send</button></form><script src="/assets/js/terminal.js"></script></section>`,
			esc(robotID), esc(robotID), inputClasses())
	})
}
