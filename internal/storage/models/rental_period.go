package models

// RentalPeriod describes one billable rental duration option. The
// descriptor is informational only: conflict logic uses start/end dates.
type RentalPeriod struct {
	Value string `json:"value"`
	Label string `json:"label"`
	// Price in KRW; nil for open-ended options priced per extra night.
	Price *int `json:"price"`
}

// Rental period option values
const (
	PeriodOneNight    = "1night2days"
	PeriodTwoNights   = "2nights3days"
	PeriodThreeNights = "3nights4days"
	PeriodFourPlus    = "4nightsPlus"
)

func krw(v int) *int { return &v }

// RentalPeriods is the catalog of selectable rental durations.
var RentalPeriods = []RentalPeriod{
	{Value: PeriodOneNight, Label: "1박 2일 (15,000원)", Price: krw(15000)},
	{Value: PeriodTwoNights, Label: "2박 3일 (25,000원)", Price: krw(25000)},
	{Value: PeriodThreeNights, Label: "3박 4일 (35,000원)", Price: krw(35000)},
	{Value: PeriodFourPlus, Label: "4박 5일 이상 (5,000원/1박 추가)", Price: nil},
}

// RentalPeriodLabel returns the display label for a period value.
// Unknown values are echoed back unchanged.
func RentalPeriodLabel(value string) string {
	for _, p := range RentalPeriods {
		if p.Value == value {
			return p.Label
		}
	}
	return value
}
