package address

// Address is one saved entry in a user's address book. The book is a
// convenience list; the checkout delivery step collects its own structured
// address, so the description stays free-form.
type Address struct {
	AddressID   int    `json:"addressId"`
	UserID      int    `json:"userId"`
	AddressDesc string `json:"addressDesc"`
	Phone       string `json:"phone"`
	AddressName string `json:"addressName"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}
