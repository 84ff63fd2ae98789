package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/servomart/servomart/internal/app/models"
)

// OrdersPage lists the viewer's orders with refund actions where allowed.
func OrdersPage(orders []models.Order) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="orders"><h1 class="text-2xl font-semibold">Orders</h1>`); err != nil {
			return err
		}
		if len(orders) == 0 {
			if err := el(w, `<p class="mt-2 text-gray-600">You have no orders yet. <a href="/browse" class="underline">Browse the catalog</a></p>`); err != nil {
				return err
			}
		} else {
			if err := el(w, `<ul class="mt-4 divide-y divide-gray-200 rounded border border-gray-200 bg-white">`); err != nil {
				return err
			}
			for _, o := range orders {
				if err := el(w, `<li class="px-4 py-3 text-sm" data-order-id="%s"><div class="flex items-center justify-between"><div><span class="font-medium">%s</span><span class="ml-2 text-gray-500">&times;%d</span></div><div class="flex items-center gap-3"><span>%s</span><span class="%s">%s</span></div></div>`,
					esc(o.ID.String()), esc(o.ProductID), o.Quantity, esc(Price(o.AmountCents)),
					statusClasses(o.Status), esc(o.Status)); err != nil {
					return err
				}
				if o.ShippingCity != "" {
					if err := el(w, `<div class="mt-1 text-gray-500">Ships to %s, %s %s</div>`,
						esc(o.ShippingCity), esc(o.ShippingState), esc(o.ShippingCountry)); err != nil {
						return err
					}
				}
				if o.Status == "succeeded" {
					if err := el(w, `<details class="mt-2"><summary class="cursor-pointer underline">Request a refund</summary><form method="post" action="/api/stripe/refunds/%s" class="mt-2 space-y-2"><input type="hidden" name="_method" value="PUT"/><select name="cancel_reason" class="%s"><option value="Too expensive">Too expensive</option><option value="Found a better alternative">Found a better alternative</option><option value="No longer needed">No longer needed</option><option value="Other">Other</option></select><input name="cancel_reason_details" placeholder="Details (required for Other)" class="%s"/><button type="submit" class="rounded border border-red-300 px-3 py-1.5 text-red-700 hover:bg-red-50">Refund this order</button></form></details>`,
						esc(o.ID.String()), inputClasses(), inputClasses()); err != nil {
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

// SuccessPage confirms a completed checkout.
func SuccessPage(order *models.Order) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := el(w, `<section data-page="success" class="text-center py-12"><h1 class="text-3xl font-semibold">Thanks for your order!</h1>`); err != nil {
			return err
		}
		if order != nil {
			if err := el(w, `<p class="mt-2 text-gray-600" data-order-id="%s">Order for %s &times;%d, total %s.</p>`,
				esc(order.ID.String()), esc(order.ProductID), order.Quantity, esc(Price(order.AmountCents))); err != nil {
				return err
			}
		} else {
			if err := el(w, `<p class="mt-2 text-gray-600">Your payment is being confirmed. It will appear in your orders shortly.</p>`); err != nil {
				return err
			}
		}
		return el(w, `<a href="/orders" class="mt-4 inline-block underline">View your orders</a></section>`)
	})
}

func statusClasses(status string) string {
	base := cx("rounded", "px-2", "py-0.5", "text-xs")
	switch status {
	case "succeeded":
		return cx(base, "bg-green-100", "text-green-800")
	case "refunded":
		return cx(base, "bg-gray-200", "text-gray-700")
	default:
		return cx(base, "bg-amber-100", "text-amber-800")
	}
}
