package menu

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mmenu/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MinSearchKeywordLength is the shortest keyword, in runes, that triggers a search
	MinSearchKeywordLength = 3
	// MaxSearchResults caps the number of products a search returns
	MaxSearchResults = 20
)

var ErrSearchKeywordTooShort = shared.NewDomainError("SEARCH_KEYWORD_TOO_SHORT", "Search keyword must have at least 3 characters")

// foldDiacritics strips combining marks and maps the Vietnamese đ, which has
// no decomposition, to d.
var foldDiacritics = runes.Map(func(r rune) rune {
	switch r {
	case 'đ':
		return 'd'
	case 'Đ':
		return 'D'
	}
	return r
})

// NormalizeSearchText lowercases s, removes diacritics and collapses
// whitespace so "Phở  Bò" and "pho bo" compare equal.
func NormalizeSearchText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), foldDiacritics, norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// SearchProducts returns the products whose name contains keyword, ignoring
// case and diacritics. Combo dishes are excluded and at most
// MaxSearchResults products are returned, in input order.
func SearchProducts(products []Product, keyword string) ([]Product, error) {
	needle := NormalizeSearchText(keyword)
	if utf8.RuneCountInString(needle) < MinSearchKeywordLength {
		return nil, ErrSearchKeywordTooShort
	}

	result := make([]Product, 0)
	for _, p := range products {
		if p.DishType == DishTypeCombo {
			continue
		}
		if strings.Contains(NormalizeSearchText(p.Name), needle) {
			result = append(result, p)
			if len(result) == MaxSearchResults {
				break
			}
		}
	}
	return result, nil
}
