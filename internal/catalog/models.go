package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Category is the book-category enumeration shared by titles and editions.
type Category string

const (
	CategoryNovel      Category = "NOVEL"
	CategoryNovella    Category = "NOVELLA"
	CategoryAnthology  Category = "ANTHOLOGY"
	CategoryCollection Category = "COLLECTION"
	CategoryOmnibus    Category = "OMNIBUS"
)

var categories = []Category{
	CategoryNovel,
	CategoryNovella,
	CategoryAnthology,
	CategoryCollection,
	CategoryOmnibus,
}

// Categories returns every known category.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory accepts any letter case and surrounding whitespace.
func ParseCategory(value string) (Category, error) {
	candidate := Category(strings.ToUpper(strings.TrimSpace(value)))
	for _, c := range categories {
		if c == candidate {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", value)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

func (c Category) String() string {
	return strings.ToLower(string(c))
}

// Title is the logical-work record. Year and Pages are zero when unknown;
// ISBN is empty once the canonical identifier has been disowned.
type Title struct {
	ID           int64
	Title        string
	Year         int
	Authors      string
	Category     Category
	ISBN         string
	Pages        int
	AltTitles    string
	CoverImage   string
	Note         string
	Inconsistent bool
	Virtual      bool
}

// Mapping associates an identifier with one title, tagged with the edition's
// category and language flag.
type Mapping struct {
	ISBN     string
	TitleID  int64
	Category Category
	Foreign  bool
}

// Claimant is a title that owns a mapping to the identifier under resolution,
// paired with the edition details of that mapping.
type Claimant struct {
	Title
	EditionCategory Category
	Foreign         bool
}

// Translation links a translated work to the canonical title of its source.
type Translation struct {
	TitleID          int64
	CanonicalTitleID int64
	Title            string
	Year             int
	Note             string
}

// DuplicateGroup is one identifier claimed by several titles, as listed by
// the duplicate report.
type DuplicateGroup struct {
	ISBN      string
	Claimants []Claimant
}
