package recommended

// RecommendedItem is the public DTO returned by the recommended API.
// JSON tags follow the camelCase convention used elsewhere in the project.
type RecommendedItem struct {
	ProductID    int     `json:"productId"`
	ProductPic   *string `json:"productPic,omitempty"`
	ProductName  *string `json:"productName,omitempty"`
	ProductPrice *int    `json:"productPrice,omitempty"`
	Score        *int    `json:"score,omitempty"`
}
