package domain

import "time"

// Currency represents a supported currency code
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
)

// ParseCurrency validates a currency code, returning ok=false for anything
// outside the supported set.
func ParseCurrency(value string) (Currency, bool) {
	switch Currency(value) {
	case CurrencyINR, CurrencyUSD:
		return Currency(value), true
	}
	return "", false
}

// TxnAction is the kind of ledger transaction
type TxnAction int

const (
	TxnBuy TxnAction = iota + 1
	TxnSell
	TxnDeposit
	TxnWithdraw
	TxnEMI
	TxnInterestCredit
	TxnValuationUpdate
	TxnLiabilityPayment
)

// StockMarket identifies the market a stock trades on
type StockMarket int

const (
	MarketUS  StockMarket = 1
	MarketIND StockMarket = 2
)

// AssetCategory classifies manually tracked holdings
type AssetCategory int

const (
	CategoryMF AssetCategory = iota + 1
	CategoryUSStocks
	CategoryINDStocks
	CategoryMetals
	CategoryCrypto
	CategoryRetirals
	CategoryRealEstate
	CategoryCash
	CategoryOther
)

// LiabilityType classifies a liability
type LiabilityType int

const (
	LiabilityLoan LiabilityType = iota + 1
	LiabilityPersonal
	LiabilityCreditCard
	LiabilityOther
)

// LiabilityStatus is the lifecycle state of a liability
type LiabilityStatus int

const (
	LiabilityActive LiabilityStatus = 1
	LiabilityClosed LiabilityStatus = 2
)

// GoalStatus is the lifecycle state of a savings goal
type GoalStatus int

const (
	GoalActive GoalStatus = iota + 1
	GoalAchieved
	GoalPaused
)

// User is an account holder
type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Name            string    `json:"name,omitempty"`
	DisplayCurrency Currency  `json:"display_currency"`
	CreatedAt       time.Time `json:"created_at"`
}

// Platform is a broker/bank the user holds accounts with
type Platform struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SubAccountType classifies what a platform account holds
type SubAccountType struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Type         int      `json:"type"`
	BaseCurrency Currency `json:"base_currency"`
}

// PlatformAccount links a user to one sub-account on a platform
type PlatformAccount struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	PlatformID       int64     `json:"platform_id"`
	SubAccountTypeID int64     `json:"sub_account_type_id"`
	Nickname         string    `json:"nickname,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Stock is an instrument in the tradable catalogue
type Stock struct {
	ID       int64       `json:"id"`
	Symbol   string      `json:"symbol"`
	Name     string      `json:"name"`
	Market   StockMarket `json:"market"`
	Currency Currency    `json:"currency"`
}

// Transaction is one append-only ledger entry. BUY/SELL carry a stock
// reference, quantity and unit price; cash-style actions carry only amount.
type Transaction struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	PlatformAccountID  int64     `json:"platform_account_id"`
	StockID            *int64    `json:"stock_id,omitempty"`
	RelatedLiabilityID *int64    `json:"related_liability_id,omitempty"`
	Action             TxnAction `json:"txn_action"`
	Date               time.Time `json:"txn_date"`
	Quantity           *float64  `json:"quantity,omitempty"`
	UnitPrice          *float64  `json:"unit_price,omitempty"`
	Amount             float64   `json:"amount"`
	Currency           Currency  `json:"currency"`
	Fees               float64   `json:"fees"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`

	// Stock is populated on reads that join the stock catalogue.
	Stock *Stock `json:"stock,omitempty"`
}

// StockPrice is one manually recorded price point for a stock
type StockPrice struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	StockID  int64     `json:"stock_id"`
	Price    float64   `json:"price"`
	Currency Currency  `json:"currency"`
	AsOfDate time.Time `json:"as_of_date"`
	Source   string    `json:"source,omitempty"`
}

// HoldingSnapshot is a manually entered valuation for a non-ledger holding
type HoldingSnapshot struct {
	ID                int64         `json:"id"`
	UserID            int64         `json:"user_id"`
	PlatformAccountID *int64        `json:"platform_account_id,omitempty"`
	Label             string        `json:"label"`
	AssetCategory     AssetCategory `json:"asset_category"`
	Value             float64       `json:"value"`
	Currency          Currency      `json:"currency"`
	AsOfDate          time.Time     `json:"as_of_date"`
}

// RealEstateValuation is a dated valuation of one property
type RealEstateValuation struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	PropertyName string    `json:"property_name"`
	Value        float64   `json:"value"`
	Currency     Currency  `json:"currency"`
	AsOfDate     time.Time `json:"as_of_date"`
}

// Liability is a loan or other debt
type Liability struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Name         string          `json:"name"`
	Type         LiabilityType   `json:"liability_type"`
	Lender       string          `json:"lender,omitempty"`
	Principal    float64         `json:"principal"`
	InterestRate *float64        `json:"interest_rate,omitempty"`
	TenureMonths *int            `json:"tenure_months,omitempty"`
	EMI          *float64        `json:"emi,omitempty"`
	Status       LiabilityStatus `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LiabilitySnapshot records the outstanding balance of a liability on a date
type LiabilitySnapshot struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	LiabilityID int64     `json:"liability_id"`
	Outstanding float64   `json:"outstanding"`
	AsOfDate    time.Time `json:"as_of_date"`
}

// FxRate is a user-entered conversion rate valid from its as-of date
type FxRate struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	FromCurrency Currency  `json:"from_currency"`
	ToCurrency   Currency  `json:"to_currency"`
	Rate         float64   `json:"rate"`
	AsOfDate     time.Time `json:"as_of_date"`
}

// Goal is a savings target
type Goal struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Name         string     `json:"name"`
	TargetAmount float64    `json:"target_amount"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	Status       GoalStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}
