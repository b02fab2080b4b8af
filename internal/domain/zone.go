package domain

// Zone is a destination grouping that decides which pricing rule applies.
// The set is closed: zones are reference data, never created at runtime.
type Zone struct {
	Key             string   `json:"key"`
	Label           string   `json:"label"`
	Countries       []string `json:"countries"` // ISO 3166-1 alpha-2; empty = catch-all
	DeliveryMinDays int      `json:"deliveryMinDays"`
	DeliveryMaxDays int      `json:"deliveryMaxDays"`
}

const (
	ZoneItaly       = "italy"
	ZoneEurope      = "europe"
	ZoneAmericas    = "americas"
	ZoneRestOfWorld = "rest_of_world"
)

// DomesticZone is the only zone priced flat by subtotal instead of weight.
const DomesticZone = ZoneItaly

// ZoneOrder defines the display ordering of zones. The last entry is the
// open-ended default that catches every country not listed elsewhere.
var ZoneOrder = []string{ZoneItaly, ZoneEurope, ZoneAmericas, ZoneRestOfWorld}

var Zones = map[string]*Zone{
	ZoneItaly: {
		Key:             ZoneItaly,
		Label:           "Italia",
		Countries:       []string{"IT", "SM", "VA"},
		DeliveryMinDays: 1,
		DeliveryMaxDays: 3,
	},
	ZoneEurope: {
		Key:   ZoneEurope,
		Label: "Europa",
		Countries: []string{
			"AT", "BE", "BG", "CH", "CY", "CZ", "DE", "DK", "EE", "ES",
			"FI", "FR", "GB", "GR", "HR", "HU", "IE", "LT", "LU", "LV",
			"MT", "NL", "NO", "PL", "PT", "RO", "SE", "SI", "SK",
		},
		DeliveryMinDays: 3,
		DeliveryMaxDays: 7,
	},
	ZoneAmericas: {
		Key:             ZoneAmericas,
		Label:           "Americhe",
		Countries:       []string{"AR", "BR", "CA", "CL", "CO", "MX", "PE", "US", "UY"},
		DeliveryMinDays: 5,
		DeliveryMaxDays: 12,
	},
	ZoneRestOfWorld: {
		Key:             ZoneRestOfWorld,
		Label:           "Resto del mondo",
		Countries:       nil, // catch-all
		DeliveryMinDays: 7,
		DeliveryMaxDays: 15,
	},
}

// GetZone returns a zone by its key, or nil if the key is not a zone.
func GetZone(key string) *Zone {
	return Zones[key]
}

// IsZone reports whether key names a member of the closed zone set.
func IsZone(key string) bool {
	_, ok := Zones[key]
	return ok
}

// ZoneForCountry maps an ISO country code to its zone. Countries not listed
// in any zone fall through to the last zone in ZoneOrder.
func ZoneForCountry(countryCode string) *Zone {
	for _, key := range ZoneOrder {
		z := Zones[key]
		for _, c := range z.Countries {
			if c == countryCode {
				return z
			}
		}
	}
	return Zones[ZoneOrder[len(ZoneOrder)-1]]
}

// ZoneList returns the zones in display order. Used by the public config API.
func ZoneList() []Zone {
	out := make([]Zone, 0, len(ZoneOrder))
	for _, key := range ZoneOrder {
		out = append(out, *Zones[key])
	}
	return out
}
