package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/auth"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrRateNotFound        = errors.New("rate not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Service implements the point-of-sale and accounting operations. All writes
// go through the snapshot store's Update path, so each one is persisted and
// reconciled in the same logical step as any other edit.
type Service struct {
	st *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{st: st}
}

// RecordSale appends a buy/sell ledger entry and decrements product stock.
func (s *Service) RecordSale(userId, productId string, quantity int64, price decimal.Decimal, typ models.TransactionType, now time.Time) (models.Transaction, error) {
	if typ != models.TxBuy && typ != models.TxSell {
		return models.Transaction{}, fmt.Errorf("transaction type %q is not a sale", typ)
	}
	if quantity <= 0 {
		return models.Transaction{}, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	var (
		product models.Product
		found   bool
	)
	s.st.Products.Update(func(cur []models.Product) []models.Product {
		idx := -1
		for i, p := range cur {
			if p.Id == productId && p.UserId == userId {
				idx = i
				break
			}
		}
		if idx < 0 {
			return cur
		}
		if typ == models.TxSell && cur[idx].Quantity < quantity {
			return cur
		}
		next := make([]models.Product, len(cur))
		copy(next, cur)
		if typ == models.TxSell {
			next[idx].Quantity -= quantity
		} else {
			next[idx].Quantity += quantity
		}
		product = next[idx]
		found = true
		return next
	})
	if !found {
		// Distinguish the two refusal reasons for the caller.
		for _, p := range s.st.Products.Get() {
			if p.Id == productId && p.UserId == userId {
				return models.Transaction{}, ErrInsufficientStock
			}
		}
		return models.Transaction{}, ErrProductNotFound
	}

	amount := decimal.NewFromInt(quantity)
	tx := models.Transaction{
		Id:        uuid.New().String(),
		UserId:    userId,
		Type:      typ,
		Amount:    amount,
		Price:     price,
		Total:     price.Mul(amount),
		Status:    models.TxPending,
		CreatedAt: now.UTC(),
	}
	s.appendTransaction(tx)

	zap.L().Info("Sale recorded",
		zap.String("user_id", userId),
		zap.String("product", product.Name),
		zap.String("type", string(typ)),
		zap.Int64("quantity", quantity),
		zap.String("total", tx.Total.String()))
	return tx, nil
}

// RecordExpense appends an expense or rent entry; amount is the full cost.
func (s *Service) RecordExpense(userId string, typ models.TransactionType, amount decimal.Decimal, now time.Time) (models.Transaction, error) {
	if typ != models.TxExpense && typ != models.TxRent {
		return models.Transaction{}, fmt.Errorf("transaction type %q is not an expense", typ)
	}
	tx := models.Transaction{
		Id:        uuid.New().String(),
		UserId:    userId,
		Type:      typ,
		Amount:    decimal.NewFromInt(1),
		Price:     amount,
		Total:     amount,
		Status:    models.TxPending,
		CreatedAt: now.UTC(),
	}
	s.appendTransaction(tx)
	return tx, nil
}

func (s *Service) appendTransaction(tx models.Transaction) {
	s.st.Transactions.Update(func(cur []models.Transaction) []models.Transaction {
		next := make([]models.Transaction, len(cur), len(cur)+1)
		copy(next, cur)
		return append(next, tx)
	})
}

// MarkPaid settles a pending ledger entry.
func (s *Service) MarkPaid(txId string) error {
	var found bool
	s.st.Transactions.Update(func(cur []models.Transaction) []models.Transaction {
		idx := -1
		for i, t := range cur {
			if t.Id == txId {
				idx = i
				break
			}
		}
		if idx < 0 {
			return cur
		}
		found = true
		if cur[idx].Status == models.TxPaid {
			return cur
		}
		next := make([]models.Transaction, len(cur))
		copy(next, cur)
		next[idx].Status = models.TxPaid
		return next
	})
	if !found {
		return ErrTransactionNotFound
	}
	return nil
}

// Totals summarizes one user's ledger.
type Totals struct {
	Bought   decimal.Decimal
	Sold     decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// UserTotals sums a user's ledger entries by type. Net is sold minus bought
// minus expenses.
func (s *Service) UserTotals(userId string) Totals {
	t := Totals{
		Bought:   decimal.Zero,
		Sold:     decimal.Zero,
		Expenses: decimal.Zero,
	}
	for _, tx := range s.st.Transactions.Get() {
		if tx.UserId != userId {
			continue
		}
		switch tx.Type {
		case models.TxBuy:
			t.Bought = t.Bought.Add(tx.Total)
		case models.TxSell:
			t.Sold = t.Sold.Add(tx.Total)
		case models.TxExpense, models.TxRent:
			t.Expenses = t.Expenses.Add(tx.Total)
		}
	}
	t.Net = t.Sold.Sub(t.Bought).Sub(t.Expenses)
	return t
}

// AddCategory appends a free-standing product tag.
func (s *Service) AddCategory(name string) models.Category {
	cat := models.Category{Id: uuid.New().String(), Name: strings.TrimSpace(name)}
	s.st.Categories.Update(func(cur []models.Category) []models.Category {
		next := make([]models.Category, len(cur), len(cur)+1)
		copy(next, cur)
		return append(next, cat)
	})
	return cat
}

// RemoveCategory deletes a tag by id.
func (s *Service) RemoveCategory(id string) {
	s.st.Categories.Update(func(cur []models.Category) []models.Category {
		next := make([]models.Category, 0, len(cur))
		for _, c := range cur {
			if c.Id != id {
				next = append(next, c)
			}
		}
		if len(next) == len(cur) {
			return cur
		}
		return next
	})
}

// AddProduct registers an inventory item for a ledger owner.
func (s *Service) AddProduct(userId, name string, defaultPrice decimal.Decimal, quantity int64, category string) models.Product {
	p := models.Product{
		Id:           uuid.New().String(),
		UserId:       userId,
		Name:         strings.TrimSpace(name),
		DefaultPrice: defaultPrice,
		Quantity:     quantity,
		Category:     category,
	}
	s.st.Products.Update(func(cur []models.Product) []models.Product {
		next := make([]models.Product, len(cur), len(cur)+1)
		copy(next, cur)
		return append(next, p)
	})
	return p
}

// ClearTransactions empties the ledger. The entity type survives; only the
// rows go.
func (s *Service) ClearTransactions() {
	s.st.Transactions.Set([]models.Transaction{})
}

// PurgeUsers clears the user collection down to just the root developer
// account.
func (s *Service) PurgeUsers() {
	s.st.Users.Update(func(cur []models.User) []models.User {
		next := make([]models.User, 0, 1)
		for _, u := range cur {
			if u.Id == auth.RootUserId {
				next = append(next, u)
			}
		}
		return next
	})
}

// Convert exchanges an amount between two currency rates: the source is
// bought at its buy rate, the target sold at its sell rate.
func Convert(rates []models.Rate, amount decimal.Decimal, fromCode, toCode string) (decimal.Decimal, error) {
	from, err := rateByCode(rates, fromCode)
	if err != nil {
		return decimal.Zero, err
	}
	to, err := rateByCode(rates, toCode)
	if err != nil {
		return decimal.Zero, err
	}
	if to.Sell.IsZero() {
		return decimal.Zero, fmt.Errorf("rate %s has zero sell price", toCode)
	}
	return amount.Mul(from.Buy).Div(to.Sell), nil
}

func rateByCode(rates []models.Rate, code string) (models.Rate, error) {
	for _, r := range rates {
		if strings.EqualFold(r.Code, code) {
			return r, nil
		}
	}
	return models.Rate{}, fmt.Errorf("%w: %s", ErrRateNotFound, code)
}
