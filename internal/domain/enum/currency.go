package enum

// Currencies lists the symbols offered by the form. Any other non-empty
// symbol is accepted as a custom currency. Only $, €, £ and ¥ exist in the
// core PDF fonts; the rest need a UTF-8 font file.
var Currencies = []string{
	"$", "€", "£", "₹", "¥", "₦", "₽", "₩", "₺", "₴", "₫", "₲", "₪", "₱", "฿",
	"₡", "₵", "₸", "₭", "₮", "₨", "₼", "₾", "₿",
}

// DefaultCurrency is the symbol used when none is chosen.
const DefaultCurrency = "$"
