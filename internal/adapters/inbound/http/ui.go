package httpin

import (
	"fmt"
	"net/http"
	"strings"

	"restaurant_service/internal/ports/inbound"
	"restaurant_service/internal/web"

	"github.com/starfederation/datastar-go/datastar"
)

type UI struct {
	uc inbound.OrderUseCase
}

func NewUI(uc inbound.OrderUseCase) *UI {
	return &UI{uc: uc}
}

func (u *UI) Index(w http.ResponseWriter, r *http.Request) {
	http.FileServer(http.FS(web.MustFS())).ServeHTTP(w, r)
}

// OrdersSSE patches the dashboard's order table with the current list. The
// page re-requests it on an interval.
func (u *UI) OrdersSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	orders, err := u.uc.List(r.Context())
	if err != nil {
		sse.PatchElements(`<tbody id="orders"><tr><td colspan="5">orders unavailable</td></tr></tbody>`)
		return
	}

	var b strings.Builder
	b.WriteString(`<tbody id="orders">`)
	for _, o := range orders {
		fmt.Fprintf(&b, `<tr><td>#%d</td><td>%s</td><td>%s</td><td>%d items</td><td>$%.2f</td></tr>`,
			o.ID,
			htmlEscape(o.CustomerName),
			o.CreatedAt.Format(orderDateLayout),
			o.ItemCount,
			o.TotalPrice,
		)
	}
	b.WriteString(`</tbody>`)
	sse.PatchElements(b.String())
}

func htmlEscape(s string) string {
	repl := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return repl.Replace(s)
}
