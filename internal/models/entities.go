package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateCategory groups currency rates by market segment.
type RateCategory string

const (
	RateLocal    RateCategory = "local"
	RateTransfer RateCategory = "transfer"
	RateToman    RateCategory = "toman"
	RateGlobal   RateCategory = "global"
)

// MetalCategory groups precious-metal rates.
type MetalCategory string

const (
	MetalGold   MetalCategory = "gold"
	MetalSilver MetalCategory = "silver"
	MetalGlobal MetalCategory = "global"
)

// Role is the privilege level of an account.
type Role string

const (
	RoleUser      Role = "user"
	RoleStaff     Role = "staff"
	RoleVIP       Role = "VIP+"
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
)

// UserStatus is the moderation state of an account.
type UserStatus string

const (
	StatusPending  UserStatus = "pending"
	StatusApproved UserStatus = "approved"
	StatusBlocked  UserStatus = "blocked"
)

// TransactionType classifies ledger entries.
type TransactionType string

const (
	TxBuy     TransactionType = "buy"
	TxSell    TransactionType = "sell"
	TxExpense TransactionType = "expense"
	TxRent    TransactionType = "rent"
)

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

const (
	TxPaid    TransactionStatus = "paid"
	TxPending TransactionStatus = "pending"
)

// Rate is a displayed currency exchange rate.
type Rate struct {
	Id          string          `json:"id"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Category    RateCategory    `json:"category"`
	Buy         decimal.Decimal `json:"buy"`
	Sell        decimal.Decimal `json:"sell"`
	Change24h   float64         `json:"change24h"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

func (r Rate) RecordID() string { return r.Id }

func (r Rate) Equal(o Rate) bool {
	return r.Id == o.Id &&
		r.Name == o.Name &&
		r.Code == o.Code &&
		r.Category == o.Category &&
		r.Buy.Equal(o.Buy) &&
		r.Sell.Equal(o.Sell) &&
		r.Change24h == o.Change24h &&
		r.LastUpdated.Equal(o.LastUpdated)
}

// MetalRate is a displayed precious-metal rate.
type MetalRate struct {
	Id       string          `json:"id"`
	Name     string          `json:"name"`
	Code     string          `json:"code"`
	Category MetalCategory   `json:"category"`
	Buy      decimal.Decimal `json:"buy"`
	Sell     decimal.Decimal `json:"sell"`
	Unit     string          `json:"unit"`
}

func (m MetalRate) RecordID() string { return m.Id }

func (m MetalRate) Equal(o MetalRate) bool {
	return m.Id == o.Id &&
		m.Name == o.Name &&
		m.Code == o.Code &&
		m.Category == o.Category &&
		m.Buy.Equal(o.Buy) &&
		m.Sell.Equal(o.Sell) &&
		m.Unit == o.Unit
}

// CryptoRate is a displayed cryptocurrency price. Identity is by id only.
type CryptoRate struct {
	Id        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Change24h float64         `json:"change24h"`
}

func (c CryptoRate) RecordID() string { return c.Id }

func (c CryptoRate) Equal(o CryptoRate) bool {
	return c.Id == o.Id &&
		c.Symbol == o.Symbol &&
		c.Price.Equal(o.Price) &&
		c.Change24h == o.Change24h
}

// Headline is a flagged announcement shown above the rate boards.
type Headline struct {
	Id     string    `json:"id"`
	Text   string    `json:"text"`
	Active bool      `json:"active"`
	Date   time.Time `json:"date"`
}

func (h Headline) RecordID() string { return h.Id }

func (h Headline) Equal(o Headline) bool {
	return h.Id == o.Id &&
		h.Text == o.Text &&
		h.Active == o.Active &&
		h.Date.Equal(o.Date)
}

// User is an account. Password holds the bcrypt hash, never plaintext.
// ExpiresAt is nil for accounts that never expire.
type User struct {
	Id        string     `json:"id"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (u User) RecordID() string { return u.Id }

func (u User) Equal(o User) bool {
	if u.Id != o.Id || u.Email != o.Email || u.Password != o.Password ||
		u.Role != o.Role || u.Status != o.Status || !u.CreatedAt.Equal(o.CreatedAt) {
		return false
	}
	switch {
	case u.ExpiresAt == nil && o.ExpiresAt == nil:
		return true
	case u.ExpiresAt == nil || o.ExpiresAt == nil:
		return false
	default:
		return u.ExpiresAt.Equal(*o.ExpiresAt)
	}
}

// Transaction is a POS ledger entry belonging to one user.
type Transaction struct {
	Id        string            `json:"id"`
	UserId    string            `json:"userId"`
	Type      TransactionType   `json:"type"`
	Amount    decimal.Decimal   `json:"amount"`
	Price     decimal.Decimal   `json:"price"`
	Total     decimal.Decimal   `json:"total"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

func (t Transaction) RecordID() string { return t.Id }

func (t Transaction) Equal(o Transaction) bool {
	return t.Id == o.Id &&
		t.UserId == o.UserId &&
		t.Type == o.Type &&
		t.Amount.Equal(o.Amount) &&
		t.Price.Equal(o.Price) &&
		t.Total.Equal(o.Total) &&
		t.Status == o.Status &&
		t.CreatedAt.Equal(o.CreatedAt)
}

// Product is an inventory item owned by one ledger user.
type Product struct {
	Id           string          `json:"id"`
	UserId       string          `json:"userId"`
	Name         string          `json:"name"`
	DefaultPrice decimal.Decimal `json:"defaultPrice"`
	Quantity     int64           `json:"quantity"`
	Category     string          `json:"category"`
}

func (p Product) RecordID() string { return p.Id }

func (p Product) Equal(o Product) bool {
	return p.Id == o.Id &&
		p.UserId == o.UserId &&
		p.Name == o.Name &&
		p.DefaultPrice.Equal(o.DefaultPrice) &&
		p.Quantity == o.Quantity &&
		p.Category == o.Category
}

// Category is a free-standing tag used by products.
type Category struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

func (c Category) RecordID() string { return c.Id }

func (c Category) Equal(o Category) bool {
	return c.Id == o.Id && c.Name == o.Name
}

// AppConfigId is the fixed row id of the AppConfig singleton.
const AppConfigId = 1

// AppConfig is the single-row theming and feature-flag document. It is
// never diffed; every change upserts the whole object to the fixed row.
type AppConfig struct {
	Id           int                          `json:"id"`
	AppName      string                       `json:"appName"`
	LogoURL      string                       `json:"logoUrl"`
	PrimaryColor string                       `json:"primaryColor"`
	AccentColor  string                       `json:"accentColor"`
	Language     string                       `json:"language"`
	Features     map[string]bool              `json:"features"`
	Translations map[string]map[string]string `json:"translations"`
}

func (a AppConfig) RecordID() string { return "1" }
