package entsoe

import "strings"

// domains maps area codes to their EIC bidding zone or control area codes.
var domains = map[string]string{
	"AT":     "10YAT-APG------L",
	"BE":     "10YBE----------2",
	"CH":     "10YCH-SWISSGRIDZ",
	"CZ":     "10YCZ-CEPS-----N",
	"DE":     "10Y1001A1001A83F",
	"DE-LU":  "10Y1001A1001A82H",
	"DK":     "10Y1001A1001A65H",
	"EE":     "10Y1001A1001A39I",
	"ES":     "10YES-REE------0",
	"FI":     "10YFI-1--------U",
	"FR":     "10YFR-RTE------C",
	"GB":     "10YGB----------A",
	"GB-NIR": "10Y1001A1001A016",
	"GR":     "10YGR-HTSO-----Y",
	"HU":     "10YHU-MAVIR----U",
	"IE":     "10YIE-1001A00010",
	"IT":     "10YIT-GRTN-----B",
	"LT":     "10YLT-1001A0008Q",
	"LV":     "10YLV-1001A00074",
	"NL":     "10YNL----------L",
	"NO":     "10YNO-0--------C",
	"PL":     "10YPL-AREA-----S",
	"PT":     "10YPT-REN------W",
	"RO":     "10YRO-TEL------P",
	"SE":     "10YSE-1--------K",
	"SI":     "10YSI-ELES-----O",
	"SK":     "10YSK-SEPS-----K",
}

// psrTypes maps generation types to ENTSO-E production source codes.
var psrTypes = map[string]string{
	"Biomass":                         "B01",
	"Fossil Brown coal/Lignite":       "B02",
	"Fossil Coal-derived gas":         "B03",
	"Fossil Gas":                      "B04",
	"Fossil Hard coal":                "B05",
	"Fossil Oil":                      "B06",
	"Fossil Oil shale":                "B07",
	"Fossil Peat":                     "B08",
	"Geothermal":                      "B09",
	"Hydro Pumped Storage":            "B10",
	"Hydro Run-of-river and poundage": "B11",
	"Hydro Water Reservoir":           "B12",
	"Marine":                          "B13",
	"Nuclear":                         "B14",
	"Other renewable":                 "B15",
	"Solar":                           "B16",
	"Waste":                           "B17",
	"Wind Offshore":                   "B18",
	"Wind Onshore":                    "B19",
	"Other":                           "B20",
}

// EIC returns the EIC code of an area. Codes that already look like EIC codes
// are returned as is.
func EIC(area string) (string, bool) {
	if code, ok := domains[strings.ToUpper(area)]; ok {
		return code, true
	}
	if len(area) == 16 && strings.HasPrefix(area, "10Y") {
		return area, true
	}
	return "", false
}

// PSRType returns the production source code of a generation type.
func PSRType(genType string) (string, bool) {
	code, ok := psrTypes[genType]
	return code, ok
}
