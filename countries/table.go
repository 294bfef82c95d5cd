package countries

// Country is an ISO 3166-1 entry.
type Country struct {
	Alpha2 string
	Name   string
}

// iso lists the countries of the European synchronous areas and their
// neighbours, in alpha-2 order.
var iso = []Country{
	{"AD", "Andorra"},
	{"AL", "Albania"},
	{"AM", "Armenia"},
	{"AT", "Austria"},
	{"AZ", "Azerbaijan"},
	{"BA", "Bosnia and Herzegovina"},
	{"BE", "Belgium"},
	{"BG", "Bulgaria"},
	{"BY", "Belarus"},
	{"CH", "Switzerland"},
	{"CY", "Cyprus"},
	{"CZ", "Czechia"},
	{"DE", "Germany"},
	{"DK", "Denmark"},
	{"DZ", "Algeria"},
	{"EE", "Estonia"},
	{"EG", "Egypt"},
	{"ES", "Spain"},
	{"FI", "Finland"},
	{"FO", "Faroe Islands"},
	{"FR", "France"},
	{"GB", "United Kingdom"},
	{"GE", "Georgia"},
	{"GI", "Gibraltar"},
	{"GR", "Greece"},
	{"HR", "Croatia"},
	{"HU", "Hungary"},
	{"IE", "Ireland"},
	{"IL", "Israel"},
	{"IS", "Iceland"},
	{"IT", "Italy"},
	{"LI", "Liechtenstein"},
	{"LT", "Lithuania"},
	{"LU", "Luxembourg"},
	{"LV", "Latvia"},
	{"MA", "Morocco"},
	{"MC", "Monaco"},
	{"MD", "Moldova, Republic of"},
	{"ME", "Montenegro"},
	{"MK", "North Macedonia"},
	{"MT", "Malta"},
	{"NL", "Netherlands"},
	{"NO", "Norway"},
	{"PL", "Poland"},
	{"PT", "Portugal"},
	{"RO", "Romania"},
	{"RS", "Serbia"},
	{"RU", "Russian Federation"},
	{"SE", "Sweden"},
	{"SI", "Slovenia"},
	{"SK", "Slovakia"},
	{"SM", "San Marino"},
	{"TN", "Tunisia"},
	{"TR", "Türkiye"},
	{"UA", "Ukraine"},
	{"VA", "Holy See (Vatican City State)"},
	{"XK", "Kosovo"},
}

// overrides are names the ISO table does not resolve the way ENTSO-E data needs.
var overrides = map[string]string{
	"UK":               "GB",
	"United Kingdom":   "GB",
	"Great Britain":    "GB",
	"FYROM":            "MK",
	"Kosovo":           "XK",
	"Northern Ireland": "GB-NIR",
	"GB-NIR":           "GB-NIR",
}

// Area is a bidding or control area the cleaning runs over by default.
type Area struct {
	Code string
	Name string
}

// Areas are the default areas: the countries of IEA Wind Task 25 in Europe,
// plus Belgium and Austria.
var Areas = []Area{
	{"DK", "Denmark"},
	{"FI", "Finland"},
	{"FR", "France"},
	{"DE", "Germany"},
	{"IE", "Ireland"},
	{"IT", "Italy"},
	{"NL", "Netherlands"},
	{"NO", "Norway"},
	{"PT", "Portugal"},
	{"ES", "Spain"},
	{"SE", "Sweden"},
	{"GB", "Great Britain"},
	{"GB-NIR", "Northern Ireland"},
	{"BE", "Belgium"},
	{"AT", "Austria"},
}
