package checkout

import (
	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/pkg/enums"
)

// ItemInput is one proposed cart line as submitted by the client. The unit
// price is the price the client believes it is paying; it is checked against
// the catalog.
type ItemInput struct {
	ProductID      uuid.UUID      `json:"product_id"`
	VariantID      *uuid.UUID     `json:"variant_id,omitempty"`
	Quantity       int            `json:"quantity"`
	UnitPrice      float64        `json:"unit_price"`
	Currency       enums.Currency `json:"currency"`
	DurationMonths int            `json:"duration_months,omitempty"`
}

// MembershipInput carries the caller's claimed membership discount.
type MembershipInput struct {
	IsMember      bool               `json:"is_member"`
	DiscountType  enums.DiscountType `json:"discount_type,omitempty"`
	DiscountValue float64            `json:"discount_value,omitempty"`
}

// FamilyInput identifies a family member the caller is buying for.
type FamilyInput struct {
	IsBuyingForFamily bool      `json:"is_buying_for_family"`
	FamilyMemberID    uuid.UUID `json:"family_member_id,omitempty"`
}

// ValidateInput is the full pre-checkout validation request.
type ValidateInput struct {
	UserID            uuid.UUID
	Items             []ItemInput
	ShippingAddressID uuid.UUID
	BillingAddressID  *uuid.UUID
	Membership        *MembershipInput
	Family            *FamilyInput
	CouponCode        string
	FulfillmentType   enums.FulfillmentType
	Locale            string
}

// ItemDiagnostics is the per-line outcome of inventory and price checking.
type ItemDiagnostics struct {
	ProductID          uuid.UUID  `json:"product_id"`
	VariantID          *uuid.UUID `json:"variant_id,omitempty"`
	IsAvailable        bool       `json:"is_available"`
	HasVariants        bool       `json:"has_variants"`
	VariantRequired    bool       `json:"variant_required"`
	VariantValid       bool       `json:"variant_valid"`
	InventoryAvailable bool       `json:"inventory_available"`
	PriceValid         bool       `json:"price_valid"`
}

// PricingSummary is the committed pre-promotion price for the cart.
type PricingSummary struct {
	Subtotal           float64        `json:"subtotal"`
	MembershipDiscount float64        `json:"membership_discount"`
	Total              float64        `json:"total"`
	Currency           enums.Currency `json:"currency"`
}

// AddressSummary reports which addresses validated.
type AddressSummary struct {
	ShippingAddressID uuid.UUID  `json:"shipping_address_id"`
	BillingAddressID  *uuid.UUID `json:"billing_address_id,omitempty"`
	ShippingValid     bool       `json:"shipping_valid"`
	BillingValid      bool       `json:"billing_valid"`
}

// MembershipSummary reports the membership phase outcome.
type MembershipSummary struct {
	IsMember       bool    `json:"is_member"`
	DiscountAmount float64 `json:"discount_amount"`
}

// FamilySummary reports the family-purchase phase outcome.
type FamilySummary struct {
	IsBuyingForFamily bool       `json:"is_buying_for_family"`
	FamilyMemberID    *uuid.UUID `json:"family_member_id,omitempty"`
	MemberValid       bool       `json:"member_valid"`
}

// ValidationData is the structured payload accompanying a validation report.
type ValidationData struct {
	Items      []ItemDiagnostics  `json:"items"`
	Pricing    PricingSummary     `json:"pricing"`
	Address    AddressSummary     `json:"address"`
	Membership *MembershipSummary `json:"membership,omitempty"`
	Family     *FamilySummary     `json:"family,omitempty"`
}

// ValidationResult is the aggregate outcome of all validation phases.
// Created fresh per call and never persisted.
type ValidationResult struct {
	IsValid  bool           `json:"is_valid"`
	Errors   []string       `json:"errors"`
	Warnings []string       `json:"warnings"`
	Data     ValidationData `json:"data"`
}
