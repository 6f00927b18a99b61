package domain

// FilterKind selects which principal attribute a search matches on
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterByPresence
	FilterByPhone
	FilterByEmail
	FilterByUsername
	FilterByWalletID
	FilterByWalletActive
)

// Filter is a tagged principal search filter
type Filter struct {
	Kind   FilterKind
	Value  string // Match value for string filters
	Active bool   // Match value for FilterByWalletActive
}

// ParseFilter maps the searchBy/term query pair onto a Filter.
// Unknown or empty searchBy values select all principals.
func ParseFilter(searchBy, term string) Filter {
	switch searchBy {
	case "status":
		return Filter{Kind: FilterByPresence, Value: term}
	case "phonenumber":
		return Filter{Kind: FilterByPhone, Value: term}
	case "email":
		return Filter{Kind: FilterByEmail, Value: term}
	case "username":
		return Filter{Kind: FilterByUsername, Value: term}
	case "walletId":
		return Filter{Kind: FilterByWalletID, Value: term}
	case "walletStatus":
		return Filter{Kind: FilterByWalletActive, Active: term == "Active"}
	default:
		return Filter{Kind: FilterAll}
	}
}
