// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/viajexmundo/agencia/internal/model"
)

// Guatemalan locale groups thousands with "," and prefixes quetzales with "Q".
var pricePrinter = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders a whole amount in currency, e.g. "Q5,990".
// Currencies other than GTQ are rendered as "<code> <amount>".
func FormatPrice(amount int64, currency string) string {
	if currency == "" || currency == model.CurrencyGTQ {
		return pricePrinter.Sprintf("Q%d", amount)
	}
	return pricePrinter.Sprintf("%s %d", currency, amount)
}
