package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// OnboardingPage starts Stripe Connect onboarding for the signed-in user.
func OnboardingPage(hasAccount bool) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="sell-onboarding"><h1 class="text-2xl font-semibold">Start selling</h1><p class="mt-2 text-gray-600">ServoMart pays sellers through Stripe. Onboarding takes a few minutes and happens on Stripe's site.</p>`); err != nil {
			return err
		}
		if hasAccount {
			if err := el(w, `<p class="mt-4 text-sm text-gray-600">Your Stripe account exists but is not finished. Continue where you left off.</p><form method="post" action="/api/seller/onboarding" class="mt-2"><button type="submit" class="rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">Resume onboarding</button></form>`); err != nil {
				return err
			}
		} else {
			if err := el(w, `<form method="post" action="/api/seller/onboarding" class="mt-4"><button type="submit" class="rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">Set up payouts with Stripe</button></form>`); err != nil {
				return err
			}
		}
		return el(w, `</section>`)
	})
}

// SellerDashboardPage is the seller home once onboarding is complete.
func SellerDashboardPage(chargesEnabled, payoutsEnabled bool) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="sell-dashboard"><h1 class="text-2xl font-semibold">Seller dashboard</h1><dl class="mt-4 max-w-md space-y-2 text-sm"><div class="flex justify-between"><dt class="text-gray-500">Charges</dt><dd>%s</dd></div><div class="flex justify-between"><dt class="text-gray-500">Payouts</dt><dd>%s</dd></div></dl>`,
			enabledLabel(chargesEnabled), enabledLabel(payoutsEnabled)); err != nil {
			return err
		}
		return el(w, `<div class="mt-6 flex flex-wrap gap-3"><a href="/create" class="rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">New listing</a><form method="post" action="/api/seller/dashboard-login"><button type="submit" class="rounded border border-gray-300 px-4 py-2 hover:bg-gray-100">Open Stripe dashboard</button></form><a href="/delete-connect" class="rounded border border-red-300 px-4 py-2 text-red-700 hover:bg-red-50">Disconnect Stripe</a></div></section>`)
	})
}

// DeleteConnectPage asks for confirmation before removing the Connect account.
func DeleteConnectPage() templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return el(w, `<section data-page="delete-connect" class="mx-auto max-w-md"><h1 class="text-2xl font-semibold">Disconnect Stripe</h1><p class="mt-2 text-gray-600">This removes your Stripe Connect account from ServoMart. Your listings stay but cannot be purchased until you onboard again.</p><form method="post" action="/api/seller/delete-connect" class="mt-4 flex gap-3"><button type="submit" class="rounded bg-red-700 px-4 py-2 text-white hover:bg-red-600">Disconnect</button><a href="/sell/dashboard" class="rounded border border-gray-300 px-4 py-2 hover:bg-gray-100">Cancel</a></form></section>`)
	})
}

func enabledLabel(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
