// Package namedict supplies the name tables used only to pretty-print
// Species identifiers. The real project treats these dictionaries as an
// external collaborator (bit-exact embedding is not required); this
// package builds its own 4096-entry tables deterministically at init
// time from small syllable lists, instead of shipping a wordlist asset.
// Only the first 416 first names and the first 256 last names are
// syllable combinations; the remaining entries are numbered placeholders.
package namedict

import "fmt"

const TableSize = 4096

var (
	firstNames [TableSize]string
	lastNames  [TableSize]string
)

var firstSyllables = [...]string{
	"Ar", "Bel", "Cor", "Dra", "El", "Fen", "Gal", "Hol", "Il", "Jor",
	"Kel", "Lor", "Mir", "Nal", "Or", "Pel", "Quin", "Rav", "Sil", "Tor",
	"Ul", "Vel", "Wyn", "Xan", "Yor", "Zel",
}

var firstEndings = [...]string{
	"a", "en", "ia", "is", "or", "ara", "eth", "ion", "wyn", "ora",
	"ius", "ella", "an", "ir", "oth", "yra",
}

var lastSyllables = [...]string{
	"black", "bright", "stone", "storm", "iron", "silver", "grim", "wild",
	"high", "deep", "dark", "gold", "swift", "cold", "far", "oak",
}

var lastEndings = [...]string{
	"wood", "field", "shade", "fall", "reach", "hollow", "crest", "vale",
	"mere", "thorn", "gate", "barrow", "haven", "spire", "wick", "moor",
}

func init() {
	n := 0
	for _, a := range firstSyllables {
		for _, b := range firstEndings {
			if n >= TableSize {
				break
			}
			firstNames[n] = a + b
			n++
		}
	}
	for n < TableSize {
		firstNames[n] = fmt.Sprintf("Name%d", n)
		n++
	}

	n = 0
	for _, a := range lastSyllables {
		for _, b := range lastEndings {
			if n >= TableSize {
				break
			}
			lastNames[n] = a + b
			n++
		}
	}
	for n < TableSize {
		lastNames[n] = fmt.Sprintf("Family%d", n)
		n++
	}
}

// First returns the i-th first name, wrapping modulo TableSize.
func First(i uint64) string { return firstNames[i%TableSize] }

// Last returns the i-th last name, wrapping modulo TableSize.
func Last(i uint64) string { return lastNames[i%TableSize] }
