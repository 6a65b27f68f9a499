package store

import (
	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"
)

// Defaults carries the initial value of every collection and scalar,
// resolved by the caller from durable cache, then seed data.
type Defaults struct {
	Rates        []models.Rate
	Metals       []models.MetalRate
	Crypto       []models.CryptoRate
	News         []models.Headline
	Users        []models.User
	Transactions []models.Transaction
	Products     []models.Product
	Categories   []models.Category
	Config       models.AppConfig
	Theme        string
	Language     string
	SessionUser  string
}

// Store is the process-wide state bag: one typed slice per collection plus
// the scalar settings. All consumers share the same instance; each slice is
// single-writer by discipline (every mutation goes through its Collection).
type Store struct {
	Rates        *Collection[models.Rate]
	Metals       *Collection[models.MetalRate]
	Crypto       *Collection[models.CryptoRate]
	News         *Collection[models.Headline]
	Users        *Collection[models.User]
	Transactions *Collection[models.Transaction]
	Products     *Collection[models.Product]
	Categories   *Collection[models.Category]

	Config      *Scalar[models.AppConfig]
	Theme       *Scalar[string]
	Language    *Scalar[string]
	SessionUser *Scalar[string] // current user id, "" when signed out
	Connection  *Scalar[ConnStatus]
}

// New builds the state bag from resolved defaults.
func New(d Defaults) *Store {
	return &Store{
		Rates:        NewCollection(KeyRates, d.Rates),
		Metals:       NewCollection(KeyMetals, d.Metals),
		Crypto:       NewCollection(KeyCrypto, d.Crypto),
		News:         NewCollection(KeyNews, d.News),
		Users:        NewCollection(KeyUsers, d.Users),
		Transactions: NewCollection(KeyTransactions, d.Transactions),
		Products:     NewCollection(KeyProducts, d.Products),
		Categories:   NewCollection(KeyCategories, d.Categories),
		Config:       NewScalar(KeyConfig, d.Config),
		Theme:        NewScalar("theme", d.Theme),
		Language:     NewScalar("language", d.Language),
		SessionUser:  NewScalar("session", d.SessionUser),
		Connection:   NewScalar("connection", ConnUnknown),
	}
}
