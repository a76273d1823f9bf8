package service

import (
	"geocode-map/internal/i18n"
	"geocode-map/internal/models"
)

// BuildPanel renders the address panel from a view state. Without a resolved address it shows the
// placeholder; absent address fields read as "unknown".
func BuildPanel(view models.ViewState, loc *i18n.Localizer) models.Panel {
	if view.Address == nil {
		return models.Panel{
			Empty:       true,
			Placeholder: loc.Sprintf(i18n.MsgPlaceholder),
		}
	}

	coordinates := ""
	if view.Coordinates != nil {
		coordinates = view.Coordinates.String()
	}

	return models.Panel{
		Location:    loc.Sprintf(i18n.MsgLocation, orUnknown(view.Address.Location, loc)),
		Route:       loc.Sprintf(i18n.MsgAddress, orUnknown(view.Address.Route, loc)),
		Coordinates: loc.Sprintf(i18n.MsgCoordinates, coordinates),
	}
}

func orUnknown(s string, loc *i18n.Localizer) string {
	if s == "" {
		return loc.Sprintf(i18n.MsgUnknown)
	}
	return s
}
