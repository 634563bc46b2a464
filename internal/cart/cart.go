package cart

import "errors"

var (
	ErrNotFound        = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
)

// Line is a single cart line. Name, price and image are snapshotted from the
// catalog when the line is first added, so later catalog edits do not change
// an in-progress cart.
type Line struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"imageRef,omitempty"`
}

// Cart is the API shape returned to clients. Subtotal and ItemCount are
// derived from the lines on every read, never stored.
type Cart struct {
	Lines     []Line  `json:"lines"`
	Subtotal  float64 `json:"subtotal"`
	ItemCount int     `json:"itemCount"`
}

// Snapshot returns the cart view for a slice of lines.
func Snapshot(lines []Line) Cart {
	out := Cart{Lines: make([]Line, len(lines))}
	copy(out.Lines, lines)
	for _, l := range lines {
		out.Subtotal += l.UnitPrice * float64(l.Quantity)
		out.ItemCount += l.Quantity
	}
	return out
}

// addLine merges a new line into lines: an existing productId gets its
// quantity incremented, otherwise the line is appended. Display order is
// insertion order.
func addLine(lines []Line, line Line) []Line {
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i].Quantity += line.Quantity
			return lines
		}
	}
	return append(lines, line)
}

// setQuantity replaces the quantity for productID. Zero or negative removes
// the line. Unknown productIDs are left alone (remove is a no-op).
func setQuantity(lines []Line, productID, qty int) []Line {
	for i := range lines {
		if lines[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			return append(lines[:i], lines[i+1:]...)
		}
		lines[i].Quantity = qty
		return lines
	}
	return lines
}
