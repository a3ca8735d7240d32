package cart

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Identity addresses a cart. Exactly one of guest token or user id is set;
// build it with Guest or User.
type Identity struct {
	guestToken string
	userID     int64
}

func Guest(token string) Identity { return Identity{guestToken: token} }

func User(id int64) Identity { return Identity{userID: id} }

func (i Identity) IsGuest() bool      { return i.guestToken != "" }
func (i Identity) GuestToken() string { return i.guestToken }
func (i Identity) UserID() int64      { return i.userID }

func (i Identity) Valid() bool {
	return (i.guestToken != "") != (i.userID != 0)
}

func (i Identity) String() string {
	if i.IsGuest() {
		return "guest:" + i.guestToken
	}
	return fmt.Sprintf("user:%d", i.userID)
}

type Cart struct {
	ID          int64           `json:"id"`
	GuestToken  *string         `json:"guestToken,omitempty"`
	UserID      *int64          `json:"userId,omitempty"`
	Items       []CartItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CartItem price is captured when the line is first added and never
// follows later catalog changes.
type CartItem struct {
	ID        int64           `json:"id"`
	CartID    int64           `json:"cartId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Recalculate sets TotalAmount from the current items and returns it.
func (c *Cart) Recalculate() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	c.TotalAmount = total
	return total
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) ItemByProduct(productID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) Item(itemID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) removeItem(itemID int64) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }
