// Package i18n holds the user facing strings of the map page and their translations.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. English is the source language, so the keys double as the English text.
const (
	MsgPlaceholder = "Select a point on the map"
	MsgLocation    = "Location: %s"
	MsgAddress     = "Address: %s"
	MsgCoordinates = "Coordinates: %s"
	MsgUnknown     = "unknown"
	MsgTitle       = "Address on the map"
)

var translations = map[language.Tag]map[string]string{
	language.Russian: {
		MsgPlaceholder: "Выберите точку на карте",
		MsgLocation:    "Локация: %s",
		MsgAddress:     "Адрес: %s",
		MsgCoordinates: "Координаты: %s",
		MsgUnknown:     "неизвестно",
		MsgTitle:       "Адрес на карте",
	},
}

var cat = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			// SetString only fails for malformed messages, the table above is static.
			_ = b.SetString(tag, key, msg)
		}
	}
	return b
}

// Localizer prints messages in one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a localizer for the given BCP 47 locale. Unparsable or empty locales fall back to Russian.
func New(locale string) *Localizer {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.Russian
	}
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// Tag returns the localizer's language.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Sprintf formats a message key in the localizer's language.
func (l *Localizer) Sprintf(key message.Reference, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// YandexLang returns the lang parameter understood by the Yandex map and geocoder APIs.
func (l *Localizer) YandexLang() string {
	base, _ := l.tag.Base()
	switch base.String() {
	case "en":
		return "en_US"
	case "uk":
		return "uk_UA"
	case "tr":
		return "tr_TR"
	default:
		return "ru_RU"
	}
}
