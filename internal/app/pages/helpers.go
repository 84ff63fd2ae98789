package pages

import (
	"context"
	"fmt"
	"io"

	twmerge "github.com/Oudwins/tailwind-merge-go/pkg/twmerge"
	"github.com/a-h/templ"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.AmericanEnglish)

// Price renders a USD amount in cents for display.
func Price(cents int64) string {
	amount := currency.USD.Amount(float64(cents) / 100)
	return pricePrinter.Sprint(currency.NarrowSymbol(amount))
}

// cx merges tailwind class lists, later classes winning on conflict.
func cx(classes ...string) string {
	return twmerge.Merge(classes...)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// component wraps a render func as a templ.Component.
func component(fn func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(fn)
}

// el writes a formatted HTML fragment; arguments must already be escaped.
func el(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
