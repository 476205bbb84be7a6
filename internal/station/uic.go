package station

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// uicCountries maps UIC country codes (UIC leaflet 920-14) to ISO 3166-1
// alpha-3 codes. 43 is the GySEV network in Hungary; 44 and 50 are the
// Bosnian entity railways.
var uicCountries = map[int]string{
	10: "FIN",
	20: "RUS",
	21: "BLR",
	22: "UKR",
	23: "MDA",
	24: "LTU",
	25: "LVA",
	26: "EST",
	27: "KAZ",
	28: "GEO",
	29: "UZB",
	30: "PRK",
	31: "MNG",
	32: "VNM",
	33: "CHN",
	34: "LAO",
	40: "CUB",
	41: "ALB",
	42: "JPN",
	43: "HUN",
	44: "BIH",
	49: "BIH",
	50: "BIH",
	51: "POL",
	52: "BGR",
	53: "ROU",
	54: "CZE",
	55: "HUN",
	56: "SVK",
	57: "AZE",
	58: "ARM",
	59: "KGZ",
	60: "IRL",
	61: "KOR",
	62: "MNE",
	65: "MKD",
	66: "TJK",
	67: "TKM",
	68: "AFG",
	70: "GBR",
	71: "ESP",
	72: "SRB",
	73: "GRC",
	74: "SWE",
	75: "TUR",
	76: "NOR",
	78: "HRV",
	79: "SVN",
	80: "DEU",
	81: "AUT",
	82: "LUX",
	83: "ITA",
	84: "NLD",
	85: "CHE",
	86: "DNK",
	87: "FRA",
	88: "BEL",
	90: "EGY",
	91: "TUN",
	92: "DZA",
	93: "MAR",
	94: "PRT",
	95: "ISR",
	96: "IRN",
	97: "SYR",
	98: "LBN",
	99: "IRQ",
}

// IsUICLocationCode reports whether id is a 7-digit UIC location code whose
// leading two digits name a known country.
func IsUICLocationCode(id string) bool {
	if len(id) != 7 {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	_, ok := uicCountries[countryPrefix(id)]
	return ok
}

func countryPrefix(id string) int {
	n, err := strconv.Atoi(id[:2])
	if err != nil {
		return -1
	}
	return n
}

// Country returns the localized country name for the station id, or "" when
// the id is not a UIC location code.
func Country(id string, lang language.Tag) string {
	short := Canonicalize(id)
	if !IsUICLocationCode(short) {
		return ""
	}
	region, err := language.ParseRegion(uicCountries[countryPrefix(short)])
	if err != nil {
		return ""
	}
	if name := display.Regions(lang).Name(region); name != "" {
		return name
	}
	return display.Regions(language.English).Name(region)
}
