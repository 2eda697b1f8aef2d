package nlp

import "IsraBot/internal/entity"

type serviceKeywords struct {
	Service  entity.ServiceType
	Keywords []string
}

// Checked in order, the first group with a hit wins. Keywords are normalized.
var serviceGroups = []serviceKeywords{
	{Service: entity.ServiceMehter, Keywords: []string{"mehter"}},
	{Service: entity.ServicePalyaco, Keywords: []string{"palyaco"}},
	{Service: entity.ServiceSunnetDugunu, Keywords: []string{"dini dugun", "nikah", "sunnet", "dugun"}},
	{Service: entity.ServiceBando, Keywords: []string{"bando"}},
	{Service: entity.ServiceKaragoz, Keywords: []string{"karagoz", "golge", "hacivat"}},
}

var mehterSizes = []string{"8", "12", "18", "24", "30", "32"}

const (
	PalyacoTwoHours = "2-saat"
	PalyacoAllDay   = "tum-gun"

	// DefaultDistrict is assumed when only a city is given.
	DefaultDistrict = "merkez"
)

type IExtractor interface {
	Extract(text string, current entity.Filters) entity.Filters
	City(text string) (string, bool)
	District(text string) (string, bool)
	Cities() []string
	Districts() []string
}
