package merge

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"strings"
	"unicode"
)

// Columns holds the positions of the name columns in a row
type Columns struct {
	Last  int `json:"last"`
	First int `json:"first"`
}

// DefaultColumns apply when there is no header or
// when the header has no recognizable name column
var DefaultColumns = Columns{Last: 0, First: 1}

// Max is the highest name column; extras start after it
func (c Columns) Max() int {
	return max(c.Last, c.First)
}

// ResolveColumns scans a header row left to right and picks
// the name columns. Matching runs on folded text, so "Prénom",
// "PRENOM" and " prenom " are equivalent:
//
//   - starts with "pr" and ends with "nom": first name
//   - otherwise starts with "nom" or contains "famille": last name
//
// A later match overrides an earlier one. Unmatched
// categories keep their DefaultColumns position.
func ResolveColumns(header []string, log logrus.FieldLogger) Columns {
	cols := DefaultColumns
	log.Debug("Searching for headers tokens...")
	for k, v := range header {
		key := foldHeader(v)
		switch {
		case strings.HasPrefix(key, "pr") && strings.HasSuffix(key, "nom"):
			log.WithField("column", k).Debug(`Found column for "first" name`)
			cols.First = k
		case strings.HasPrefix(key, "nom") || strings.Contains(key, "famille"):
			log.WithField("column", k).Debug(`Found column for "last" name`)
			cols.Last = k
		default:
			log.WithField("column", k).Debugf("No scheme found for column (%s)", v)
		}
	}
	return cols
}

// foldHeader trims, lowercases and strips diacritics by
// decomposing to NFD and dropping nonspacing marks:
//
//	é è ê ë → e    à â ä → a    î ï → i
//	ô ö → o        ù û ü → u    ç → c
//
// Ligatures (œ, æ) are not expanded.
func foldHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
