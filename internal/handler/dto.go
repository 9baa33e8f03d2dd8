package handler

import (
	"time"

	"github.com/samber/lo"

	"github.com/mahdibiabani/stone-store/internal/domain"
)

type categoryJSON struct {
	ID            string `json:"id"`
	NameEN        string `json:"name_en"`
	NameFA        string `json:"name_fa"`
	Slug          string `json:"slug"`
	DescriptionEN string `json:"description_en"`
	DescriptionFA string `json:"description_fa"`
}

func toCategoryJSON(c domain.Category) categoryJSON {
	return categoryJSON{
		ID:            c.ID.String(),
		NameEN:        c.NameEN,
		NameFA:        c.NameFA,
		Slug:          c.Slug,
		DescriptionEN: c.DescriptionEN,
		DescriptionFA: c.DescriptionFA,
	}
}

type stoneJSON struct {
	ID            string  `json:"id"`
	CategoryID    string  `json:"category_id"`
	NameEN        string  `json:"name_en"`
	NameFA        string  `json:"name_fa"`
	DescriptionEN string  `json:"description_en"`
	DescriptionFA string  `json:"description_fa"`
	Origin        string  `json:"origin"`
	Price         *string `json:"price"`
	IsActive      bool    `json:"is_active"`

	Density             string `json:"density"`
	Porosity            string `json:"porosity"`
	CompressiveStrength string `json:"compressive_strength"`
	FlexuralStrength    string `json:"flexural_strength"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toStoneJSON(s domain.Stone) stoneJSON {
	var price *string
	if s.Price != nil {
		price = lo.ToPtr(s.Price.Amount.StringFixed(2))
	}

	return stoneJSON{
		ID:                  s.ID.String(),
		CategoryID:          s.CategoryID.String(),
		NameEN:              s.NameEN,
		NameFA:              s.NameFA,
		DescriptionEN:       s.DescriptionEN,
		DescriptionFA:       s.DescriptionFA,
		Origin:              s.Origin,
		Price:               price,
		IsActive:            s.IsActive,
		Density:             s.Density,
		Porosity:            s.Porosity,
		CompressiveStrength: s.CompressiveStrength,
		FlexuralStrength:    s.FlexuralStrength,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

type cartItemJSON struct {
	ID                string    `json:"id"`
	Stone             stoneJSON `json:"stone"`
	Quantity          int       `json:"quantity"`
	SelectedFinish    string    `json:"selected_finish"`
	SelectedThickness string    `json:"selected_thickness"`
	Notes             string    `json:"notes"`
}

type cartJSON struct {
	ID         string         `json:"id"`
	IsActive   bool           `json:"is_active"`
	Items      []cartItemJSON `json:"items"`
	TotalItems int            `json:"total_items"`
}

func toCartJSON(c domain.Cart) cartJSON {
	items := lo.Map(c.Items, func(item domain.CartItem, _ int) cartItemJSON {
		return cartItemJSON{
			ID:                item.ID.String(),
			Stone:             toStoneJSON(item.Stone),
			Quantity:          item.Quantity,
			SelectedFinish:    item.SelectedFinish,
			SelectedThickness: item.SelectedThickness,
			Notes:             item.Notes,
		}
	})

	total := lo.SumBy(c.Items, func(item domain.CartItem) int { return item.Quantity })

	return cartJSON{
		ID:         c.ID.String(),
		IsActive:   c.IsActive,
		Items:      items,
		TotalItems: total,
	}
}

type orderItemJSON struct {
	StoneID           string `json:"stone_id"`
	Quantity          int    `json:"quantity"`
	Price             string `json:"price"`
	SelectedFinish    string `json:"selected_finish"`
	SelectedThickness string `json:"selected_thickness"`
	Notes             string `json:"notes"`
}

type orderJSON struct {
	ID            string     `json:"id"`
	User          string     `json:"user"`
	OrderNumber   string     `json:"order_number"`
	TrackingCode  *string    `json:"tracking_code"`
	Status        string     `json:"status"`
	TotalAmount   string     `json:"total_amount"`
	PaymentID     string     `json:"payment_id"`
	PaymentStatus string     `json:"payment_status"`
	PaymentDate   *time.Time `json:"payment_date"`

	ShippingAddress    string `json:"shipping_address"`
	ShippingCity       string `json:"shipping_city"`
	ShippingPostalCode string `json:"shipping_postal_code"`
	ShippingPhone      string `json:"shipping_phone"`

	Items []orderItemJSON `json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOrderJSON(o domain.Order) orderJSON {
	items := lo.Map(o.Items, func(item domain.OrderItem, _ int) orderItemJSON {
		return orderItemJSON{
			StoneID:           item.StoneID.String(),
			Quantity:          item.Quantity,
			Price:             item.Price.Amount.StringFixed(2),
			SelectedFinish:    item.SelectedFinish,
			SelectedThickness: item.SelectedThickness,
			Notes:             item.Notes,
		}
	})

	return orderJSON{
		ID:                 o.ID.String(),
		User:               o.OwnerID,
		OrderNumber:        o.OrderNumber,
		TrackingCode:       o.TrackingCode,
		Status:             string(o.Status),
		TotalAmount:        o.TotalAmount.Amount.StringFixed(2),
		PaymentID:          o.PaymentID,
		PaymentStatus:      string(o.PaymentStatus),
		PaymentDate:        o.PaymentDate,
		ShippingAddress:    o.Shipping.Address,
		ShippingCity:       o.Shipping.City,
		ShippingPostalCode: o.Shipping.PostalCode,
		ShippingPhone:      o.Shipping.Phone,
		Items:              items,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}
