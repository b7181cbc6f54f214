package cart

import (
	"math"
	"sort"

	"github.com/talkincode/pedeai/pkg/money"
)

// Banknote denominations carried in practice. The zero entry stands for the
// rounded-up total itself when it is not covered by a single note.
var banknotes = []int{0, 10, 20, 50, 100, 200}

// NoChangeOption is always the first suggestion offered.
const NoChangeOption = "Não precisa"

const maxNumericOptions = 5

// ChangeOptions produces the "amount tendered" suggestions for a cash
// payment, so the merchant can prepare change before delivering. The list is
// the no-change option followed by at most five ascending BRL amounts, all
// strictly greater than the total.
func ChangeOptions(total float64) []string {
	startFrom := int(math.Ceil(total/10)) * 10

	seen := make(map[int]bool)
	candidates := make([]int, 0, len(banknotes))
	for _, note := range banknotes {
		var candidate int
		switch {
		case note == 200 && startFrom < 100:
			// Nobody pays a small order with a 200 note.
			candidate = 0
		case note >= startFrom:
			candidate = note
		default:
			candidate = startFrom + note
		}
		if float64(candidate) <= total || seen[candidate] {
			continue
		}
		seen[candidate] = true
		candidates = append(candidates, candidate)
	}

	sort.Ints(candidates)
	if len(candidates) > maxNumericOptions {
		candidates = candidates[:maxNumericOptions]
	}

	options := make([]string, 0, len(candidates)+1)
	options = append(options, NoChangeOption)
	for _, c := range candidates {
		options = append(options, money.FormatBRL(float64(c)))
	}
	return options
}

// ChangeNote renders the chosen option as the free-text payment note sent
// with the sale.
func ChangeNote(option string) string {
	if option == NoChangeOption {
		return "Não precisa de troco"
	}
	return "Troco para: " + option
}
