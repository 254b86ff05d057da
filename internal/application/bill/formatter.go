package bill

import (
	"strings"
	"time"

	"github.com/billed/backend/internal/domain/bill"
	"golang.org/x/text/language"
)

// DisplayDateLayout is the canonical display form of a bill date:
// ISO 8601 in UTC with millisecond precision.
const DisplayDateLayout = "2006-01-02T15:04:05.000Z"

// dateLayouts are tried in order when parsing a raw bill date.
// Inputs without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// Formatted is the result of formatting one raw field.
// It is either Ok (Err == nil, Display set) or Invalid (Err set, Original kept).
type Formatted struct {
	Display  string
	Original string
	Err      error
}

// OK reports whether formatting succeeded
func (f Formatted) OK() bool {
	return f.Err == nil
}

// Value returns the display value when formatting succeeded and the original otherwise
func (f Formatted) Value() string {
	if f.OK() {
		return f.Display
	}
	return f.Original
}

func ok(display, original string) Formatted {
	return Formatted{Display: display, Original: original}
}

func invalid(original string, err error) Formatted {
	return Formatted{Original: original, Err: err}
}

var supportedLocales = []language.Tag{language.French, language.English}

var localeMatcher = language.NewMatcher(supportedLocales)

var statusLabels = map[language.Tag]map[bill.Status]string{
	language.French: {
		bill.StatusPending:  "En attente",
		bill.StatusAccepted: "Accepté",
		bill.StatusRefused:  "Refusé",
	},
	language.English: {
		bill.StatusPending:  "Pending",
		bill.StatusAccepted: "Accepted",
		bill.StatusRefused:  "Refused",
	},
}

// Formatter turns raw bill fields into display strings for one locale
type Formatter struct {
	locale language.Tag
}

// NewFormatter creates a Formatter for the closest supported locale.
// French is used when nothing matches.
func NewFormatter(tag language.Tag) *Formatter {
	_, idx, _ := localeMatcher.Match(tag)
	return &Formatter{locale: supportedLocales[idx]}
}

// NewFormatterForLocale parses a locale string such as "fr", "en-GB" or an
// Accept-Language header value.
func NewFormatterForLocale(locale string) *Formatter {
	return NewFormatter(MatchLocale(locale))
}

// MatchLocale returns the supported locale closest to an Accept-Language style value
func MatchLocale(accept string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return language.French
	}
	_, idx, _ := localeMatcher.Match(tags...)
	return supportedLocales[idx]
}

// Locale returns the locale the formatter renders labels in
func (f *Formatter) Locale() language.Tag {
	return f.locale
}

// FormatDate converts a raw bill date to its canonical display form
func (f *Formatter) FormatDate(input string) Formatted {
	s := strings.TrimSpace(input)
	if s == "" {
		return invalid(input, bill.ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return ok(t.UTC().Format(DisplayDateLayout), input)
		}
	}
	return invalid(input, bill.ErrInvalidDate)
}

// FormatStatus converts a status code to its label in the formatter's locale
func (f *Formatter) FormatStatus(input string) Formatted {
	label, found := statusLabels[f.locale][bill.Status(input)]
	if !found {
		return invalid(input, bill.ErrUnknownStatus)
	}
	return ok(label, input)
}

var defaultFormatter = NewFormatter(language.French)

// FormatDate formats a bill date with the default formatter
func FormatDate(input string) Formatted {
	return defaultFormatter.FormatDate(input)
}

// FormatStatus formats a status code with the default (French) formatter
func FormatStatus(input string) Formatted {
	return defaultFormatter.FormatStatus(input)
}
