// Package templates renders the HTML fragments returned to HTMX clients.
package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// ErrorAlert renders a dismissible error box with an optional suggested action.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert" data-code="%s"><p class="alert-message">%s</p>`,
			html.EscapeString(code), html.EscapeString(message)); err != nil {
			return err
		}
		if action != "" {
			if _, err := fmt.Fprintf(w, `<p class="alert-action">%s</p>`, html.EscapeString(action)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// ImportSummary renders the outcome of an import with its rejected rows.
func ImportSummary(result *core.ImportResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<div class="import-summary" data-import-id="%s"><p>%d of %d rows imported into %s.</p>`,
			html.EscapeString(result.ImportID), result.Inserted, result.TotalRows,
			html.EscapeString(string(result.Kind))); err != nil {
			return err
		}
		if err := RejectedRows(result.RejectedRows).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// RejectedRows renders a table of rejected rows, or nothing when there are none.
func RejectedRows(rows []core.RejectedRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(rows) == 0 {
			return nil
		}
		if _, err := io.WriteString(w, `<table class="rejected-rows"><thead><tr><th>Line</th><th>Reason</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := fmt.Fprintf(w, `<tr><td>%d</td><td>%s</td></tr>`, row.Line, html.EscapeString(row.Reason)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
}
