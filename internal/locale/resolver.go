// Package locale picks a caller's culture and renders responses in it.
package locale

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// Supported lists the languages with a translated catalog. The first entry
// is the fallback.
var Supported = []language.Tag{language.English, language.German}

// Resolver maps callers to cultures. Terminal callers and callers without a
// usable locale get the administrative default.
type Resolver struct {
	fallback language.Tag

	mu       sync.Mutex
	cultures map[language.Tag]domain.Culture
}

// NewResolver creates a Resolver whose default culture is tag.
func NewResolver(fallback language.Tag) *Resolver {
	if fallback == language.Und {
		fallback = language.English
	}
	return &Resolver{fallback: fallback, cultures: make(map[language.Tag]domain.Culture)}
}

// ParseTag parses a BCP 47 tag such as "de-DE" or "en". Underscores are
// accepted ("de_DE"). An unparseable tag yields language.Und.
func ParseTag(s string) language.Tag {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" {
		return language.Und
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und
	}
	return tag
}

// Resolve returns the caller's culture.
func (r *Resolver) Resolve(caller domain.Caller) domain.Culture {
	tag := r.fallback
	if caller != nil && !caller.Terminal() {
		if t := ParseTag(caller.Locale()); t != language.Und {
			tag = t
		}
	}
	return r.Culture(tag)
}

// Culture returns the culture for tag, deriving its number separators once.
func (r *Resolver) Culture(tag language.Tag) domain.Culture {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cultures[tag]; ok {
		return c
	}
	decimal, group := Separators(tag)
	c := domain.Culture{Tag: tag, Decimal: decimal, Group: group}
	r.cultures[tag] = c
	return c
}

// Separators returns the decimal and group separators tag uses, read off a
// formatted sample number.
func Separators(tag language.Tag) (decimal, group string) {
	sample := message.NewPrinter(tag).Sprint(number.Decimal(1234567.5, number.MinFractionDigits(1)))

	// The sample reads "1<g>234<g>567<d>5"; the decimal separator sits
	// between the last two digit runs, the group separator between the
	// first two.
	runes := []rune(sample)
	var seps []string
	var cur strings.Builder
	for _, r := range runes {
		if r >= '0' && r <= '9' {
			if cur.Len() > 0 {
				seps = append(seps, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}

	switch len(seps) {
	case 0:
		return ".", ""
	case 1:
		return seps[0], ""
	default:
		return seps[len(seps)-1], seps[0]
	}
}

var _ domain.LocaleResolver = (*Resolver)(nil)
