package outlet

// Outlet is one physical bakery branch shown on the storefront's
// find-a-store page. JSON tags use camelCase to match the frontend.
type Outlet struct {
	ID           int     `json:"outletId"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Phone        *string `json:"phone,omitempty"`
	OpeningHours *string `json:"openingHours,omitempty"`
}

// LiteOutlet is the lightweight DTO used by the footer store list.
type LiteOutlet struct {
	ID   int    `json:"outletId"`
	Name string `json:"name"`
}
