package style

import "github.com/footprint-tools/switchboard/internal/domain"

// Styler implements domain.Styler using the global style functions.
type Styler struct{}

// NewStyler creates a new Styler instance.
func NewStyler() *Styler {
	return &Styler{}
}

func (s *Styler) Enabled() bool                                 { return Enabled() }
func (s *Styler) Paint(color domain.Color, text string) string { return Paint(color, text) }
func (s *Styler) Success(text string) string                    { return Success(text) }
func (s *Styler) Warning(text string) string                    { return Warning(text) }
func (s *Styler) Error(text string) string                      { return Error(text) }
func (s *Styler) Info(text string) string                       { return Info(text) }
func (s *Styler) Muted(text string) string                      { return Muted(text) }
func (s *Styler) Header(text string) string                     { return Header(text) }

// NopStyler is a no-op styler that returns text unchanged.
// Useful for testing or when styling is disabled.
type NopStyler struct{}

func (NopStyler) Enabled() bool                               { return false }
func (NopStyler) Paint(_ domain.Color, text string) string    { return text }
func (NopStyler) Success(text string) string                  { return text }
func (NopStyler) Warning(text string) string                  { return text }
func (NopStyler) Error(text string) string                    { return text }
func (NopStyler) Info(text string) string                     { return text }
func (NopStyler) Muted(text string) string                    { return text }
func (NopStyler) Header(text string) string                   { return text }

var (
	_ domain.Styler = (*Styler)(nil)
	_ domain.Styler = NopStyler{}
)
