package storekeeper

import "github.com/shopspring/decimal"

// Sort is one ordering clause for a listing call.
type Sort struct {
	Name string `json:"name"`
	Dir  string `json:"dir"`
}

// Filter is one predicate for a listing call. Name carries the remote
// operator suffix, e.g. "country_iso2__=".
type Filter struct {
	Name string `json:"name"`
	Val  string `json:"val"`
}

// CategoryTree carries the hierarchy metadata of a category row. Path is the
// materialized path the remote sorts on; ascending path order guarantees
// parents come before their children.
type CategoryTree struct {
	Path string `json:"path"`
}

// CategoryRecord is one row of the remote category listing, immutable once
// fetched.
type CategoryRecord struct {
	ID          int64        `json:"id"`
	ParentID    int64        `json:"parent_id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Published   bool         `json:"published"`
	Order       int          `json:"order"`
	Tree        CategoryTree `json:"category_tree"`
}

// CategoryPage is one page of the category listing. Count is the number of
// rows actually returned; Total is the full collection size.
type CategoryPage struct {
	Count int              `json:"count"`
	Total int              `json:"total"`
	Data  []CategoryRecord `json:"data"`
}

// PaymentProduct is one order line forwarded to the payment session.
type PaymentProduct struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	PPUWithTax decimal.Decimal `json:"ppu_wt"`
	Quantity   int             `json:"quantity"`
	IsShipping bool            `json:"is_shipping"`
	IsPayment  bool            `json:"is_payment"`
	IsDiscount bool            `json:"is_discount"`
}

// AddressSnapshot mirrors the relation address shape the remote expects.
type AddressSnapshot struct {
	Name         string `json:"name,omitempty"`
	City         string `json:"city"`
	Zipcode      string `json:"zipcode"`
	Street       string `json:"street"`
	Streetnumber string `json:"streetnumber"`
	CountryISO2  string `json:"country_iso2"`
}

// RelationSnapshot is the contact snapshot attached to a payment session.
type RelationSnapshot struct {
	Name           string           `json:"name"`
	ContactAddress *AddressSnapshot `json:"contact_address,omitempty"`
}

// PaymentParams describes a new web-shop payment session.
type PaymentParams struct {
	RedirectURL          string           `json:"redirect_url"`
	Amount               decimal.Decimal  `json:"amount"`
	Title                string           `json:"title"`
	RelationDataID       int64            `json:"relation_data_id"`
	RelationDataSnapshot RelationSnapshot `json:"relation_data_snapshot"`
	EndUserIP            string           `json:"end_user_ip,omitempty"`
	Products             []PaymentProduct `json:"products"`
}

// PaymentSession is the remote payment resource opened for one checkout.
type PaymentSession struct {
	ID          int64           `json:"id"`
	PaymentURL  string          `json:"payment_url"`
	TotalAmount decimal.Decimal `json:"amount"`
}

// ContactSet carries email/phone/name triples in relation payloads.
type ContactSet struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// BusinessData identifies a company relation.
type BusinessData struct {
	Name        string `json:"name"`
	CountryISO2 string `json:"country_iso2"`
}

// ContactPerson is the person half of a relation payload.
type ContactPerson struct {
	Familyname string     `json:"familyname"`
	Firstname  string     `json:"firstname"`
	ContactSet ContactSet `json:"contact_set"`
}

// Subuser links a relation to a webshop login.
type Subuser struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

// Relation is the remote representation of a customer/business contact.
type Relation struct {
	BusinessData   *BusinessData    `json:"business_data,omitempty"`
	ContactPerson  ContactPerson    `json:"contact_person"`
	ContactSet     ContactSet       `json:"contact_set"`
	ContactAddress *AddressSnapshot `json:"contact_address,omitempty"`
	AddressBilling *AddressSnapshot `json:"address_billing,omitempty"`
	Subuser        Subuser          `json:"subuser"`
}

// RelationPayload wraps a relation for newShopCustomer.
type RelationPayload struct {
	Relation Relation `json:"relation"`
}
