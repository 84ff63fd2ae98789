package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/servomart/servomart/internal/app/models"
)

func LoginPage() templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return el(w, `<section data-page="login" class="mx-auto max-w-md"><h1 class="text-2xl font-semibold">Sign in</h1><form method="post" action="/login" class="mt-4 space-y-4"><div><label for="email" class="block text-sm font-medium">Email</label><input id="email" name="email" type="email" required class="%s"/></div><div><label for="password" class="block text-sm font-medium">Password</label><input id="password" name="password" type="password" required class="%s"/></div><label class="flex items-center gap-2 text-sm"><input type="checkbox" name="remember_me" value="true"/> Remember me</label><button type="submit" class="w-full rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">Sign in</button></form><p class="mt-4 text-sm text-gray-600">New here? <a href="/signup/" class="underline">Create an account</a></p></section>`,
			inputClasses(), inputClasses())
	})
}

// SignupPage renders the registration form; inviteID is empty for the open
// signup route and set for /signup/:id.
func SignupPage(inviteID string) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		action := "/signup/"
		if inviteID != "" {
			action = "/signup/" + inviteID
		}
		if err := el(w, `<section data-page="signup" data-invite-id="%s" class="mx-auto max-w-md"><h1 class="text-2xl font-semibold">Create your account</h1>`, esc(inviteID)); err != nil {
			return err
		}
		if inviteID != "" {
			if err := el(w, `<p class="mt-1 text-sm text-gray-600">You were invited with code %s.</p>`, esc(inviteID)); err != nil {
				return err
			}
		}
		return el(w, `<form method="post" action="%s" class="mt-4 space-y-4"><div><label for="username" class="block text-sm font-medium">Username</label><input id="username" name="username" required class="%s"/></div><div><label for="email" class="block text-sm font-medium">Email</label><input id="email" name="email" type="email" required class="%s"/></div><div><label for="password" class="block text-sm font-medium">Password</label><input id="password" name="password" type="password" required class="%s"/></div><div><label for="confirm_password" class="block text-sm font-medium">Confirm password</label><input id="confirm_password" name="confirm_password" type="password" required class="%s"/></div><button type="submit" class="w-full rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">Sign up</button></form><p class="mt-4 text-sm text-gray-600">Already registered? <a href="/login" class="underline">Sign in</a></p></section>`,
			esc(action), inputClasses(), inputClasses(), inputClasses(), inputClasses())
	})
}

// AccountPage is the signed-in user's settings screen.
func AccountPage(user *models.User) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="account"><h1 class="text-2xl font-semibold">Account</h1><dl class="mt-4 max-w-md space-y-2 text-sm"><div class="flex justify-between"><dt class="text-gray-500">Username</dt><dd>%s</dd></div><div class="flex justify-between"><dt class="text-gray-500">Email</dt><dd>%s</dd></div></dl>`,
			esc(user.Name), esc(user.Email)); err != nil {
			return err
		}
		if err := el(w, `<h2 class="mt-8 text-lg font-medium">Change password</h2><form method="post" action="/account/password" class="mt-2 max-w-md space-y-4"><div><label for="current_password" class="block text-sm font-medium">Current password</label><input id="current_password" name="current_password" type="password" required class="%s"/></div><div><label for="new_password" class="block text-sm font-medium">New password</label><input id="new_password" name="new_password" type="password" required class="%s"/></div><div><label for="confirm_new_password" class="block text-sm font-medium">Confirm new password</label><input id="confirm_new_password" name="confirm_new_password" type="password" required class="%s"/></div><button type="submit" class="rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">Update password</button></form>`,
			inputClasses(), inputClasses(), inputClasses()); err != nil {
			return err
		}
		if err := el(w, `<h2 class="mt-8 text-lg font-medium">Selling</h2>`); err != nil {
			return err
		}
		if user.IsSeller {
			if err := el(w, `<p class="mt-2 text-sm"><a href="/sell/dashboard" class="underline">Open the seller dashboard</a></p>`); err != nil {
				return err
			}
		} else {
			if err := el(w, `<p class="mt-2 text-sm"><a href="/sell/onboarding" class="underline">Become a seller</a></p>`); err != nil {
				return err
			}
		}
		return el(w, `<p class="mt-2 text-sm"><a href="/keys" class="underline">Manage API keys</a></p></section>`)
	})
}

// ProfilePage shows a public profile and its listings. For /profile without
// an id the viewer's own profile is shown.
func ProfilePage(profile *models.User, listings []models.Listing, own bool) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="profile" data-profile-id="%s"><h1 class="text-2xl font-semibold">%s</h1>`,
			esc(profile.ID), esc(profile.Name)); err != nil {
			return err
		}
		if own {
			if err := el(w, `<p class="mt-1 text-sm text-gray-500">This is your public profile.</p>`); err != nil {
				return err
			}
		}
		if len(listings) == 0 {
			if err := el(w, `<p class="mt-4 text-gray-600">No listings yet.</p>`); err != nil {
				return err
			}
		} else {
			if err := el(w, `<div class="mt-4 grid grid-cols-1 gap-4 md:grid-cols-3">`); err != nil {
				return err
			}
			for _, item := range listings {
				if err := el(w, `<a href="/item/%s/%s" class="%s"><div class="font-medium">%s</div><div class="text-sm">%s</div></a>`,
					esc(item.Username), esc(item.Slug),
					cx("rounded", "border", "border-gray-200", "bg-white", "p-4", "hover:shadow"),
					esc(item.Title), esc(Price(item.PriceCents))); err != nil {
					return err
				}
			}
			if err := el(w, `</div>`); err != nil {
				return err
			}
		}
		return el(w, `</section>`)
	})
}

// KeysPage lists API keys. freshSecret is non-empty only right after a key
// was created; it is never shown again.
func KeysPage(keys []models.APIKey, freshSecret string) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="keys"><h1 class="text-2xl font-semibold">API keys</h1>`); err != nil {
			return err
		}
		if freshSecret != "" {
			if err := el(w, `<div class="mt-4 rounded border border-amber-200 bg-amber-50 p-4 text-sm" data-fresh-secret><p class="font-medium">Copy your new key now. It will not be shown again.</p><code class="mt-2 block break-all rounded bg-white p-2">%s</code></div>`,
				esc(freshSecret)); err != nil {
				return err
			}
		}
		if err := el(w, `<form method="post" action="/api/keys" class="mt-4 flex max-w-md gap-2"><input name="label" placeholder="Key label" required class="%s"/><button type="submit" class="rounded bg-gray-900 px-4 py-2 text-white hover:bg-gray-700">Create</button></form>`,
			inputClasses()); err != nil {
			return err
		}
		if len(keys) == 0 {
			if err := el(w, `<p class="mt-4 text-gray-600">No API keys yet.</p>`); err != nil {
				return err
			}
		} else {
			if err := el(w, `<ul class="mt-4 divide-y divide-gray-200 rounded border border-gray-200 bg-white">`); err != nil {
				return err
			}
			for _, k := range keys {
				status := "active"
				if k.RevokedAt != nil {
					status = "revoked"
				}
				if err := el(w, `<li class="flex items-center justify-between px-4 py-3 text-sm" data-key-id="%s"><div><div class="font-medium">%s</div><div class="text-gray-500">%s&hellip; &middot; %s</div></div>`,
					esc(k.ID.String()), esc(k.Label), esc(k.Prefix), status); err != nil {
					return err
				}
				if k.RevokedAt == nil {
					if err := el(w, `<form method="post" action="/api/keys/%s/revoke"><button type="submit" class="text-red-700 underline">Revoke</button></form>`,
						esc(k.ID.String())); err != nil {
						return err
					}
				}
				if err := el(w, `</li>`); err != nil {
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
