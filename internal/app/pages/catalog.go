package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/servomart/servomart/internal/app/models"
)

// BrowsePage renders one page of the catalog with pagination links.
func BrowsePage(items []models.Listing, page, totalPages uint64) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="browse" data-browse-page="%d"><h1 class="text-2xl font-semibold">Browse</h1>`, page); err != nil {
			return err
		}
		if len(items) == 0 {
			if err := el(w, `<p class="mt-2 text-gray-600">No listings on this page.</p>`); err != nil {
				return err
			}
		} else {
			if err := el(w, `<div class="mt-4 grid grid-cols-1 gap-4 md:grid-cols-3">`); err != nil {
				return err
			}
			for _, item := range items {
				if err := el(w, `<a href="/item/%s/%s" class="%s" data-listing-id="%s"><div class="font-medium">%s</div><div class="text-sm text-gray-500">by %s</div><div class="mt-2 text-sm">%s</div></a>`,
					esc(item.Username), esc(item.Slug),
					cx("rounded", "border", "border-gray-200", "bg-white", "p-4", "hover:shadow"),
					esc(item.ID.String()), esc(item.Title), esc(item.Username), esc(Price(item.PriceCents))); err != nil {
					return err
				}
			}
			if err := el(w, `</div>`); err != nil {
				return err
			}
		}
		if err := el(w, `<nav class="mt-6 flex items-center gap-3 text-sm">`); err != nil {
			return err
		}
		if page > 1 {
			if err := el(w, `<a href="/browse/%d" class="underline" rel="prev">Previous</a>`, page-1); err != nil {
				return err
			}
		}
		if err := el(w, `<span class="text-gray-500">Page %d of %d</span>`, page, totalPages); err != nil {
			return err
		}
		if page < totalPages {
			if err := el(w, `<a href="/browse/%d" class="underline" rel="next">Next</a>`, page+1); err != nil {
				return err
			}
		}
		return el(w, `</nav></section>`)
	})
}

// ItemPage is a single listing with its buy button and artifacts.
func ItemPage(listing *models.Listing, artifacts []models.Artifact, viewer *models.User) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="item" data-listing-id="%s"><h1 class="text-2xl font-semibold">%s</h1><p class="text-sm text-gray-500">by <a href="/profile/%s" class="underline">%s</a></p><p class="mt-4 text-gray-700">%s</p><p class="mt-4 text-xl font-medium">%s</p>`,
			esc(listing.ID.String()), esc(listing.Title), esc(listing.SellerID), esc(listing.Username),
			esc(listing.Description), esc(Price(listing.PriceCents))); err != nil {
			return err
		}
		if viewer != nil {
			if err := el(w, `<form method="post" action="/api/stripe/checkout/%s" class="mt-4"><button type="submit" class="rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">Buy now</button></form>`,
				esc(listing.ID.String())); err != nil {
				return err
			}
		} else {
			if err := el(w, `<p class="mt-4 text-sm text-gray-600"><a href="/login" class="underline">Sign in</a> to purchase.</p>`); err != nil {
				return err
			}
		}
		if len(artifacts) > 0 {
			if err := el(w, `<h2 class="mt-8 text-lg font-medium">Included files</h2><ul class="mt-2 divide-y divide-gray-200 rounded border border-gray-200 bg-white">`); err != nil {
				return err
			}
			for _, a := range artifacts {
				if err := el(w, `<li class="flex items-center justify-between px-4 py-2 text-sm"><a href="/file/%s" class="underline">%s</a><span class="text-gray-500">%d bytes</span></li>`,
					esc(a.ID.String()), esc(a.Name), a.SizeBytes); err != nil {
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

// CreatePage is the new-listing form.
func CreatePage() templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return el(w, `<section data-page="create"><h1 class="text-2xl font-semibold">Create a listing</h1><form method="post" action="/create" class="mt-4 max-w-lg space-y-4"><div><label for="title" class="block text-sm font-medium">Title</label><input id="title" name="title" required class="%s"/></div><div><label for="description" class="block text-sm font-medium">Description</label><textarea id="description" name="description" rows="5" class="%s"></textarea></div><div><label for="price" class="block text-sm font-medium">Price (USD)</label><input id="price" name="price" type="number" step="0.01" min="0" required class="%s"/></div><button type="submit" class="rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">Publish</button></form></section>`,
			inputClasses(), inputClasses(), inputClasses())
	})
}

// FilePage shows one artifact with its download link.
func FilePage(artifact *models.Artifact, listing *models.Listing) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="file" data-artifact-id="%s"><h1 class="text-2xl font-semibold">%s</h1><p class="text-sm text-gray-500">%s &middot; %d bytes</p>`,
			esc(artifact.ID.String()), esc(artifact.Name), esc(artifact.ContentType), artifact.SizeBytes); err != nil {
			return err
		}
		if listing != nil {
			if err := el(w, `<p class="mt-2 text-sm">Part of <a href="/item/%s/%s" class="underline">%s</a></p>`,
				esc(listing.Username), esc(listing.Slug), esc(listing.Title)); err != nil {
				return err
			}
		}
		return el(w, `<a href="/api/artifacts/%s/download" class="mt-4 inline-block rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">Download</a></section>`,
			esc(artifact.ID.String()))
	})
}

func inputClasses() string {
	return cx("mt-1", "block", "w-full", "rounded", "border", "border-gray-300", "px-3", "py-2", "text-sm")
}
