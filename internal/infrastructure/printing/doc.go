// Package printing formats sale documents for the counter.
//
// CurrencyFormatter prints amounts with the locale's digit grouping through
// golang.org/x/text, so receipts read "$ 12.345,50" in es-CL.
package printing
