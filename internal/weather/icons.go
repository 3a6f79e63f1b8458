package weather

import "fmt"

// Icon is the simplified condition shown next to each forecast day.
type Icon string

const (
	Sunny        Icon = "Sunny"
	PartlyCloudy Icon = "Partly cloudy"
	Cloudy       Icon = "Cloudy"
	Mist         Icon = "Mist"
	Rainy        Icon = "Rainy"
	Stormy       Icon = "Stormy"
)

var Icons = []Icon{Sunny, PartlyCloudy, Cloudy, Mist, Rainy, Stormy}

func (i Icon) Valid() bool {
	for _, known := range Icons {
		if i == known {
			return true
		}
	}
	return false
}

// IconTable maps WeatherAPI.com condition codes to icons. Unknown codes
// get the table's fallback.
type IconTable struct {
	byCode   map[int]Icon
	fallback Icon
}

// NewIconTable checks every entry and the fallback up front so lookups
// can never produce an unknown icon.
func NewIconTable(byCode map[int]Icon, fallback Icon) (*IconTable, error) {
	if !fallback.Valid() {
		return nil, fmt.Errorf("fallback icon %q is not a known icon", fallback)
	}
	table := make(map[int]Icon, len(byCode))
	for code, icon := range byCode {
		if !icon.Valid() {
			return nil, fmt.Errorf("condition %d maps to unknown icon %q", code, icon)
		}
		table[code] = icon
	}
	return &IconTable{byCode: table, fallback: fallback}, nil
}

func (t *IconTable) Lookup(code int) Icon {
	if icon, ok := t.byCode[code]; ok {
		return icon
	}
	return t.fallback
}

func (t *IconTable) Fallback() Icon {
	return t.fallback
}

// https://www.weatherapi.com/docs/weather_conditions.json
var conditionIcons = map[int]Icon{
	1000: Sunny,
	1003: PartlyCloudy,
	1006: Cloudy,
	1009: Cloudy, // overcast
	1030: Mist,
	1063: Rainy,
	1066: Rainy,
	1069: Rainy,
	1072: Rainy,
	1087: Stormy, // thundery outbreaks
	1114: Rainy,
	1117: Stormy, // blizzard
	1135: Mist,   // fog
	1147: Mist,
	1150: Rainy,
	1153: Rainy,
	1168: Rainy,
	1171: Rainy,
	1180: Rainy,
	1183: Rainy,
	1186: Rainy,
	1189: Rainy,
	1192: Rainy,
	1195: Rainy,
	1198: Rainy,
	1201: Rainy,
	1204: Rainy,
	1207: Rainy,
	1210: Rainy,
	1213: Rainy,
	1216: Rainy,
	1219: Rainy,
	1222: Rainy,
	1225: Rainy,
	1237: Rainy,
	1240: Rainy,
	1243: Rainy,
	1246: Rainy,
	1249: Rainy,
	1252: Rainy,
	1255: Rainy,
	1258: Rainy,
	1261: Rainy,
	1264: Rainy,
	1273: Stormy,
	1276: Stormy,
	1279: Stormy,
	1282: Stormy,
}

// DefaultIcons is the WeatherAPI.com table with a Cloudy fallback.
var DefaultIcons = mustIconTable(conditionIcons, Cloudy)

func mustIconTable(byCode map[int]Icon, fallback Icon) *IconTable {
	t, err := NewIconTable(byCode, fallback)
	if err != nil {
		panic(err)
	}
	return t
}
