package model

import "time"

// InventoryItem is a perishable-item record scoped to one inventory.
type InventoryItem struct {
	ID                 string     `json:"id"`
	InventoryID        string     `json:"inventory_id"`
	Barcode            string     `json:"barcode"`
	ItemName           string     `json:"item_name"`
	Quantity           int        `json:"quantity"`
	LastUpdated        time.Time  `json:"last_updated"`
	ProductDescription string     `json:"product_description"`
	ImageURL           string     `json:"image_url"`
	Ingredients        string     `json:"ingredients"`
	NutritionFacts     string     `json:"nutrition_facts"`
	Brand              string     `json:"brand"`
	Title              string     `json:"title"`
	Category           string     `json:"category"`
	ReminderDate       *time.Time `json:"reminder_date,omitempty"`
	CreatedBy          string     `json:"created_by"`
	LastUpdatedBy      string     `json:"last_updated_by"`
}

// ItemPatch is a partial item update. Nil fields are left untouched.
// Quantity is a pointer so that an explicit zero survives the round trip
// instead of being read as "unset".
type ItemPatch struct {
	ItemName           *string    `json:"item_name,omitempty"`
	Quantity           *int       `json:"quantity,omitempty"`
	ProductDescription *string    `json:"product_description,omitempty"`
	Category           *string    `json:"category,omitempty"`
	ReminderDate       *time.Time `json:"reminder_date,omitempty"`
	ClearReminder      bool       `json:"clear_reminder,omitempty"`
}

// Apply writes the patch onto item and returns it. Caller stamps
// LastUpdated and LastUpdatedBy.
func (p *ItemPatch) Apply(item *InventoryItem) *InventoryItem {
	if p.ItemName != nil {
		item.ItemName = *p.ItemName
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.ProductDescription != nil {
		item.ProductDescription = *p.ProductDescription
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.ReminderDate != nil {
		item.ReminderDate = p.ReminderDate
	}
	if p.ClearReminder {
		item.ReminderDate = nil
	}
	return item
}
