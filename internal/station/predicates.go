package station

// DefaultProductFlags lists the product flags of the search API that mark a
// station as served by long-distance, regional or suburban trains. Revisions
// of the search API disagree on spelling, so both long and short forms are
// listed.
var DefaultProductFlags = []string{
	"nationalExpress",
	"nationalExp",
	"national",
	"regionalExpress",
	"regionalExp",
	"regional",
	"suburban",
}

// Predicates is the table of heuristics deciding which search results are
// offered in the station search:
//
//	served     at least one of ProductFlags is true in the candidate's products
//	uic        the canonical id is a 7-digit UIC location code with a known country
//	region     the name is spelled entirely in capitals (a region, not a station)
//	located    the candidate carries a location
//
// A candidate is searchable when it is served, uic, located and not a region.
type Predicates struct {
	ProductFlags []string
}

func NewPredicates(flags []string) Predicates {
	if len(flags) == 0 {
		flags = DefaultProductFlags
	}
	return Predicates{ProductFlags: flags}
}

// IsLongDistanceOrRegional reports whether s is served by one of the
// configured train types and carries a UIC location code.
func (p Predicates) IsLongDistanceOrRegional(s Station) bool {
	if len(s.Products) == 0 {
		return false
	}
	served := false
	for _, f := range p.ProductFlags {
		if s.Products[f] {
			served = true
			break
		}
	}
	return served && IsUICLocationCode(Canonicalize(s.ID))
}

func (p Predicates) Searchable(s Station) bool {
	return p.IsLongDistanceOrRegional(s) && !IsRegion(s) && HasLocation(s)
}

// Filter keeps the searchable candidates, preserving order.
func (p Predicates) Filter(candidates []Station) []Station {
	out := make([]Station, 0, len(candidates))
	for _, s := range candidates {
		if p.Searchable(s) {
			out = append(out, s)
		}
	}
	return out
}
