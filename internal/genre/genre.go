package genre

// Canonical is the set of genre slugs the catalog recognizes. Browse
// facets group by these, so writers picking free-form variants get
// folded into one bucket.
var Canonical = []string{
	"fantasy",
	"science-fiction",
	"romance",
	"mystery-thriller",
	"horror",
	"historical",
	"drama",
	"comedy",
	"slice-of-life",
	"action",
	"adventure",
	"young-adult",
	"fanfiction",
	"poetry",
	"non-fiction",
}

// aliases maps common variations to canonical slugs.
var aliases = map[string]string{
	"sci-fi":          "science-fiction",
	"scifi":           "science-fiction",
	"sf":              "science-fiction",
	"high-fantasy":    "fantasy",
	"epic-fantasy":    "fantasy",
	"urban-fantasy":   "fantasy",
	"litrpg":          "fantasy",
	"isekai":          "fantasy",
	"thriller":        "mystery-thriller",
	"mystery":         "mystery-thriller",
	"suspense":        "mystery-thriller",
	"crime":           "mystery-thriller",
	"detective":       "mystery-thriller",
	"scary":           "horror",
	"history":         "historical",
	"historical-fic":  "historical",
	"humor":           "comedy",
	"humour":          "comedy",
	"funny":           "comedy",
	"ya":              "young-adult",
	"teen":            "young-adult",
	"teen-fiction":    "young-adult",
	"fanfic":          "fanfiction",
	"fan-fiction":     "fanfiction",
	"poems":           "poetry",
	"nonfiction":      "non-fiction",
	"essay":           "non-fiction",
	"memoir":          "non-fiction",
	"romantic-comedy": "romance",
	"romcom":          "romance",
	"love":            "romance",
	"everyday-life":   "slice-of-life",
	"sol":             "slice-of-life",
}

var canonicalSet = func() map[string]bool {
	set := make(map[string]bool, len(Canonical))
	for _, slug := range Canonical {
		set[slug] = true
	}
	return set
}()

// Canonicalize folds a free-form genre into its canonical slug.
// Unknown genres keep their slugified form, so niche genres are not
// lost; they just do not merge into a canonical bucket.
// Empty input stays empty.
func Canonicalize(raw string) string {
	slug := Slugify(raw)
	if slug == "" {
		return ""
	}
	if canonical, ok := aliases[slug]; ok {
		return canonical
	}
	return slug
}

// IsCanonical reports whether the slug is one of the recognized genres.
func IsCanonical(slug string) bool {
	return canonicalSet[slug]
}
