package locale

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// Catalog renders messages through an x/text catalog. Message keys are the
// English format strings, so a missing translation falls back to English.
type Catalog struct {
	builder *catalog.Builder

	mu       sync.Mutex
	printers map[language.Tag]*message.Printer
}

// NewCatalog creates a catalog preloaded with the built-in translations.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(Supported[0])),
		printers: make(map[language.Tag]*message.Printer),
	}
	for tag, entries := range builtin {
		if err := c.Add(tag, entries); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add registers translations for tag, keyed by English format string.
func (c *Catalog) Add(tag language.Tag, entries map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, msg := range entries {
		if err := c.builder.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("catalog %s %q: %w", tag, key, err)
		}
	}
	// Printers match against the languages known when they were created.
	clear(c.printers)
	return nil
}

// Languages returns the tags with at least one translation.
func (c *Catalog) Languages() []language.Tag {
	return c.builder.Languages()
}

// Render translates msg for tag, keeping its color.
func (c *Catalog) Render(tag language.Tag, msg domain.Message) (string, domain.Color) {
	return c.printer(tag).Sprintf(msg.Key, msg.Args...), msg.Color
}

func (c *Catalog) printer(tag language.Tag) *message.Printer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.printers[tag]; ok {
		return p
	}
	p := message.NewPrinter(tag, message.Catalog(c.builder))
	c.printers[tag] = p
	return p
}

var _ domain.Translator = (*Catalog)(nil)
