package alert

import (
	"fmt"
	"time"
)

// SeasonLevel grades the expected demand of a category for a month
type SeasonLevel string

const (
	SeasonHigh   SeasonLevel = "alta"
	SeasonMedium SeasonLevel = "media"
	SeasonLow    SeasonLevel = "baja"
)

// SeasonalRule ties a product category to a demand level for one month
type SeasonalRule struct {
	Category string
	Level    SeasonLevel
	Reason   string
}

// seasonalCalendar is the month-by-month demand table for a hardware
// retailer in Venezuela. Rainy season runs roughly May through October.
var seasonalCalendar = map[time.Month][]SeasonalRule{
	time.January: {
		{Category: "pinturas", Level: SeasonMedium, Reason: "remodelaciones de inicio de año"},
		{Category: "herramientas", Level: SeasonLow, Reason: "baja actividad después de las fiestas"},
	},
	time.February: {
		{Category: "electricidad", Level: SeasonMedium, Reason: "mantenimiento de instalaciones"},
	},
	time.March: {
		{Category: "jardineria", Level: SeasonHigh, Reason: "preparación de jardines antes de las lluvias"},
		{Category: "pinturas", Level: SeasonMedium, Reason: "temporada seca favorable para pintar"},
	},
	time.April: {
		{Category: "jardineria", Level: SeasonHigh, Reason: "siembra previa a la temporada de lluvias"},
		{Category: "impermeabilizantes", Level: SeasonMedium, Reason: "preparación para las lluvias"},
	},
	time.May: {
		{Category: "impermeabilizantes", Level: SeasonHigh, Reason: "inicio de la temporada de lluvias"},
		{Category: "plomeria", Level: SeasonHigh, Reason: "filtraciones por lluvias"},
	},
	time.June: {
		{Category: "impermeabilizantes", Level: SeasonHigh, Reason: "temporada de lluvias"},
		{Category: "plomeria", Level: SeasonMedium, Reason: "reparaciones por humedad"},
	},
	time.July: {
		{Category: "plomeria", Level: SeasonHigh, Reason: "pico de la temporada de lluvias"},
		{Category: "jardineria", Level: SeasonLow, Reason: "poca siembra en plena lluvia"},
	},
	time.August: {
		{Category: "herramientas", Level: SeasonMedium, Reason: "reparaciones escolares y del hogar"},
		{Category: "impermeabilizantes", Level: SeasonHigh, Reason: "temporada de lluvias"},
	},
	time.September: {
		{Category: "electricidad", Level: SeasonMedium, Reason: "mantenimiento tras tormentas"},
	},
	time.October: {
		{Category: "impermeabilizantes", Level: SeasonMedium, Reason: "cierre de la temporada de lluvias"},
		{Category: "pinturas", Level: SeasonMedium, Reason: "retoques post lluvia"},
	},
	time.November: {
		{Category: "pinturas", Level: SeasonHigh, Reason: "remodelaciones antes de las fiestas"},
		{Category: "electricidad", Level: SeasonHigh, Reason: "instalación de luces navideñas"},
	},
	time.December: {
		{Category: "pinturas", Level: SeasonHigh, Reason: "temporada navideña"},
		{Category: "herramientas", Level: SeasonMedium, Reason: "regalos y proyectos de fin de año"},
		{Category: "jardineria", Level: SeasonLow, Reason: "baja demanda de jardín en diciembre"},
	},
}

// RulesForMonth returns the seasonal rules active in the given month
func RulesForMonth(m time.Month) []SeasonalRule {
	return seasonalCalendar[m]
}

// NotificationKind maps the demand level to the notification kind the
// sweep persists
func (r SeasonalRule) NotificationKind() NotificationKind {
	switch r.Level {
	case SeasonHigh:
		return KindHighSeason
	case SeasonMedium:
		return KindMediumSeason
	default:
		return KindLowSeasonPromo
	}
}

// Message renders the human-readable alert text for the rule
func (r SeasonalRule) Message() string {
	switch r.Level {
	case SeasonHigh:
		return fmt.Sprintf("Alta demanda esperada en %s: %s", r.Category, r.Reason)
	case SeasonMedium:
		return fmt.Sprintf("Demanda moderada esperada en %s: %s", r.Category, r.Reason)
	default:
		return fmt.Sprintf("Temporada baja en %s, considere promociones: %s", r.Category, r.Reason)
	}
}
