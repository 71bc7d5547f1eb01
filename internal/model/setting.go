package model

// Setting value types. Values are stored as text and coerced on read.
const (
	SettingString  = "string"
	SettingNumber  = "number"
	SettingBoolean = "boolean"
	SettingJSON    = "json"
)

// Well-known keys.
const (
	KeyCashBalance      = "cash_balance"
	KeyDefaultCurrency  = "default_currency"
	KeyInvoiceSequence  = "invoice_seq"
	KeyPurchaseSequence = "purchase_order_seq"
	KeyCompanyName      = "company_name"
)

// SystemSetting is a generic typed key/value row. One row per key, overwritten
// in place; last writer wins except for the balance and sequence keys, which
// are only touched under a row lock inside the owning transaction.
type SystemSetting struct {
	BaseModel
	Key         string `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	Value       string `gorm:"type:text" json:"value"`
	ValueType   string `gorm:"type:varchar(20);default:'string'" json:"value_type"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}
