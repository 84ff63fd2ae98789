package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/servomart/servomart/internal/app/models"
)

// HomePage is the landing screen with the featured rail.
func HomePage(featured []models.FeaturedListing) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="home"><h1 class="text-3xl font-semibold">The humanoid robotics marketplace</h1><p class="mt-2 text-gray-600">Buy and sell humanoid hardware, URDF bundles, firmware and research artifacts.</p><div class="mt-4 flex gap-3"><a href="/browse" class="rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">Browse the catalog</a><a href="/create" class="rounded border border-gray-300 px-4 py-2 hover:bg-gray-100">List an item</a></div>`); err != nil {
			return err
		}
		if err := featuredRail(featured).Render(ctx, w); err != nil {
			return err
		}
		return el(w, `</section>`)
	})
}

func featuredRail(featured []models.FeaturedListing) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<div class="mt-10" data-featured-count="%d"><h2 class="text-xl font-medium">Featured</h2>`, len(featured)); err != nil {
			return err
		}
		if len(featured) == 0 {
			if err := el(w, `<p class="mt-2 text-sm text-gray-500">Nothing featured right now.</p>`); err != nil {
				return err
			}
		} else {
			if err := el(w, `<div class="mt-4 grid grid-cols-2 gap-4 md:grid-cols-4">`); err != nil {
				return err
			}
			for _, f := range featured {
				if err := el(w, `<a href="/file/%s" class="%s" data-featured-id="%s"><div class="font-medium">%s</div><div class="text-sm text-gray-600">%s</div></a>`,
					esc(f.ListingID.String()),
					cx("rounded", "border", "border-gray-200", "bg-white", "p-4", "hover:shadow"),
					esc(f.ListingID.String()), esc(f.Title), esc(Price(f.PriceCents))); err != nil {
					return err
				}
			}
			if err := el(w, `</div>`); err != nil {
				return err
			}
		}
		return el(w, `</div>`)
	})
}

func PlaygroundPage() templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return el(w, `<section data-page="playground"><h1 class="text-2xl font-semibold">Playground</h1><p class="mt-2 text-gray-600">Experiment with robot models and behaviors in the browser. Load a URDF bundle from the catalog to get started.</p><div class="mt-6 rounded border border-dashed border-gray-300 bg-white p-12 text-center text-gray-400">Simulation viewport</div></section>`)
	})
}

func AboutPage() templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return el(w, `<section data-page="about"><h1 class="text-2xl font-semibold">About ServoMart</h1><p class="mt-2 text-gray-600">ServoMart is a marketplace for humanoid robotics: hardware kits, actuators, URDF bundles, firmware images and research datasets, all from independent sellers.</p><p class="mt-2 text-gray-600">Sellers onboard through Stripe and get paid directly. Buyers get verified artifacts with instant downloads.</p></section>`)
	})
}

func DownloadsPage(artifacts []models.Artifact) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="downloads"><h1 class="text-2xl font-semibold">Downloads</h1>`); err != nil {
			return err
		}
		if len(artifacts) == 0 {
			if err := el(w, `<p class="mt-2 text-gray-600">No downloads yet. Purchased artifacts show up here.</p>`); err != nil {
				return err
			}
		} else {
			if err := el(w, `<ul class="mt-4 divide-y divide-gray-200 rounded border border-gray-200 bg-white">`); err != nil {
				return err
			}
			for _, a := range artifacts {
				if err := el(w, `<li class="flex items-center justify-between px-4 py-3" data-artifact-id="%s"><div><div class="font-medium">%s</div><div class="text-sm text-gray-500">%s &middot; %d bytes</div></div><a href="/file/%s" class="text-sm underline">Details</a></li>`,
					esc(a.ID.String()), esc(a.Name), esc(a.ContentType), a.SizeBytes, esc(a.ID.String())); err != nil {
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

func ResearchPage() templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return el(w, `<section data-page="research"><h1 class="text-2xl font-semibold">Research</h1><p class="mt-2 text-gray-600">Papers, datasets and benchmarks from the ServoMart community.</p><ul class="mt-4 list-disc pl-6 text-gray-700"><li>Humanoid locomotion baselines</li><li>Open actuator telemetry datasets</li><li>Sim-to-real transfer reports</li></ul></section>`)
	})
}

func TOSPage() templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return el(w, `<section data-page="tos"><h1 class="text-2xl font-semibold">Terms of Service</h1><p class="mt-2 text-gray-600">By using ServoMart you agree to list only lawful robotics goods, to describe them accurately, and to honor completed orders. Payment processing is handled by Stripe under its own terms.</p><p class="mt-2 text-gray-600">Accounts that list denied goods or abuse the platform may be suspended.</p></section>`)
	})
}

func PrivacyPage() templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return el(w, `<section data-page="privacy"><h1 class="text-2xl font-semibold">Privacy Policy</h1><p class="mt-2 text-gray-600">We store your account details, your orders and the shipping information Stripe returns at checkout. We do not sell personal data. Session cookies keep you signed in and carry transient notifications.</p></section>`)
	})
}

// NotFoundPage is rendered at /404; unmatched paths redirect here.
func NotFoundPage() templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return el(w, `<section data-page="not-found" class="text-center py-16"><h1 class="text-4xl font-semibold">404</h1><p class="mt-2 text-gray-600">That page does not exist.</p><a href="/" class="mt-4 inline-block underline">Back to the homepage</a></section>`)
	})
}
