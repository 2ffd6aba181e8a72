package normalize

import (
	"fmt"
	"strings"
)

// regionAliases maps spelling/script variants to one canonical region token.
// Keys must never map to another key (no alias chains); Validate enforces this.
var regionAliases = map[string]string{
	"東京":       "tokyo",
	"東京都":      "tokyo",
	"tokyo-to":  "tokyo",
	"tokyo to":  "tokyo",
	"大阪":       "osaka",
	"大阪市":      "osaka",
	"osaka-shi": "osaka",
	"osaka-fu":  "osaka",
	"京都":       "kyoto",
	"kyoto-shi": "kyoto",
	"横浜":       "yokohama",
	"名古屋":      "nagoya",
	"福岡":       "fukuoka",
	"札幌":       "sapporo",
	"神戸":       "kobe",
}

// categoryAliases maps specialty synonyms to one canonical category token.
var categoryAliases = map[string]string{
	"heart doctor":     "cardiology",
	"cardiologist":     "cardiology",
	"循環器科":            "cardiology",
	"循環器内科":           "cardiology",
	"dentist":          "dentistry",
	"dental clinic":    "dentistry",
	"歯科":               "dentistry",
	"children's doctor": "pediatrics",
	"pediatrician":     "pediatrics",
	"小児科":              "pediatrics",
	"skin doctor":      "dermatology",
	"dermatologist":    "dermatology",
	"皮膚科":              "dermatology",
	"eye doctor":       "ophthalmology",
	"眼科":               "ophthalmology",
	"gp":               "internal medicine",
	"general practitioner": "internal medicine",
	"内科":               "internal medicine",
	"ob-gyn":           "gynecology",
	"産婦人科":             "gynecology",
	"psychiatrist":     "psychiatry",
	"精神科":              "psychiatry",
	"ent":              "otolaryngology",
	"耳鼻咽喉科":            "otolaryngology",
}

// Region returns the canonical token for a region name.
func Region(value string) string {
	cleaned := clean(value)
	if canonical, ok := regionAliases[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// Category returns the canonical token for a provider category.
func Category(value string) string {
	cleaned := clean(value)
	if canonical, ok := categoryAliases[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// Slug converts a value to a lower-case identifier safe for ids and cache keys.
func Slug(value string) string {
	cleaned := clean(value)
	if cleaned == "" {
		return ""
	}

	var out strings.Builder
	lastUnderscore := false
	for _, ch := range cleaned {
		isAlphaNum := (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9')
		if isAlphaNum {
			out.WriteRune(ch)
			lastUnderscore = false
		} else if !lastUnderscore {
			out.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(out.String(), "_")
}

// Validate checks the alias tables for chains and self-loops. Called at startup.
func Validate() error {
	for name, table := range map[string]map[string]string{
		"region":   regionAliases,
		"category": categoryAliases,
	} {
		for alias, canonical := range table {
			if strings.TrimSpace(canonical) == "" {
				return fmt.Errorf("%s alias %q maps to an empty canonical token", name, alias)
			}
			if alias == canonical {
				return fmt.Errorf("%s alias %q maps to itself", name, alias)
			}
			if _, chained := table[canonical]; chained {
				return fmt.Errorf("%s alias %q maps to %q which is itself an alias", name, alias, canonical)
			}
		}
	}
	return nil
}

// clean lower-cases, trims and collapses internal whitespace.
func clean(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(value))), " ")
}
