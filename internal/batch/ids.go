package batch

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/lightwalker/dailydo/internal/types"
)

// initials returns the lowercase first letter of every word in name.
// Words are split on anything that is not a letter or digit.
func initials(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var sb strings.Builder
	for _, w := range words {
		for _, r := range w {
			sb.WriteRune(unicode.ToLower(r))
			break
		}
	}
	if sb.Len() == 0 {
		return "x"
	}
	return sb.String()
}

// slug lowercases name and joins its words with hyphens
func slug(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "-")
}

// slugSet hands out attribute ids unique within one record. A name whose slug
// is already taken gets a numeric suffix: self-respect, self-respect-2.
type slugSet struct {
	taken map[string]bool
}

func newSlugSet() *slugSet {
	return &slugSet{taken: make(map[string]bool)}
}

func (s *slugSet) claim(name string) string {
	base := slug(name)
	if base == "" {
		base = "attribute"
	}
	id := base
	for n := 2; s.taken[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	s.taken[id] = true
	return id
}

// idSequence hands out item ids of the form <role model initials>-<attribute
// initials>-NNN. Attributes of one role model that share initials continue the
// same counter, so ids stay unique within the record.
type idSequence struct {
	roleModel string
	next      map[string]int
}

func newIDSequence(roleModelName string) *idSequence {
	return &idSequence{roleModel: initials(roleModelName), next: make(map[string]int)}
}

// assign returns a copy of items with ids set
func (s *idSequence) assign(attributeName string, items []types.DailyDoItem) []types.DailyDoItem {
	prefix := s.roleModel + "-" + initials(attributeName)

	out := make([]types.DailyDoItem, len(items))
	for i, item := range items {
		s.next[prefix]++
		item.ID = fmt.Sprintf("%s-%03d", prefix, s.next[prefix])
		out[i] = item
	}
	return out
}

// decodeSourceAttributes decodes the string-encoded attribute list of a record.
// Entries without a name or method are dropped.
func decodeSourceAttributes(record types.RoleModelRecord) ([]types.SourceAttribute, error) {
	raw := strings.TrimSpace(record.SourceAttributes)
	if raw == "" || raw == "null" {
		return nil, &SourceAttributesDecodeError{RoleModelID: record.ID, Message: "no source attributes"}
	}

	var attrs []types.SourceAttribute
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return nil, &SourceAttributesDecodeError{RoleModelID: record.ID, Message: "source attributes are not a JSON list", Cause: err}
	}

	usable := attrs[:0]
	for _, a := range attrs {
		a.Name = strings.TrimSpace(a.Name)
		a.Method = strings.TrimSpace(a.Method)
		if a.Name == "" || a.Method == "" {
			continue
		}
		usable = append(usable, a)
	}
	if len(usable) == 0 {
		return nil, &SourceAttributesDecodeError{RoleModelID: record.ID, Message: "source attributes list is empty"}
	}
	return usable, nil
}
