package product

// Product represents a catalog item and maps to the `public.product` table.
// JSON tags follow the camelCase convention used elsewhere in the project.
type Product struct {
	ID          int     `json:"productId"`
	Name        string  `json:"productName"`
	Price       int     `json:"productPrice"`
	Score       int     `json:"score"`
	Description string  `json:"productDesc"`
	Category    *string `json:"category,omitempty"`
	Pic         *string `json:"productPic,omitempty"`
	PicSecond   *string `json:"productPicSecond,omitempty"`
	CreatedAt   *string `json:"createdAt,omitempty"`
	UpdatedAt   *string `json:"updatedAt,omitempty"`
}

// AllowedCategories contains the supported product categories used across the app.
var AllowedCategories = []string{
	"Breads",
	"Viennoiserie",
	"Cakes",
	"Cookies",
	"Savouries",
	"Beverages",
}
