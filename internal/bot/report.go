package bot

import (
	"fmt"
	"strings"
)

const NoComment = "Нет комментария"

type Report struct {
	OrderNumber string
	Success     bool
	Comment     string
	Address     string
	MapLink     string
	Distance    *float64
}

// FormatReport renders the finished submission into the summary text
// published to the company group. Pure function, no I/O.
func FormatReport(r Report) string {
	var b strings.Builder

	b.WriteString("📋 Новый отчёт о заказе:\n")
	fmt.Fprintf(&b, "📦 Номер заказа: %s\n", r.OrderNumber)

	success := "Нет"
	if r.Success {
		success = "Да"
	}
	fmt.Fprintf(&b, "✅ Всё прошло хорошо: %s\n", success)

	if r.Address != "" {
		if r.MapLink != "" {
			fmt.Fprintf(&b, "📍 Адрес: %s (%s)\n", r.Address, r.MapLink)
		} else {
			fmt.Fprintf(&b, "📍 Адрес: %s\n", r.Address)
		}
	}

	if r.Distance != nil {
		fmt.Fprintf(&b, "📏 Расстояние до центра: %.1f км\n", *r.Distance)
	}

	comment := r.Comment
	if comment == "" {
		comment = NoComment
	}
	fmt.Fprintf(&b, "📝 Комментарий: %s", comment)

	return b.String()
}
