package repository

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"gestiostock-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrSettingNotFound = errors.New("setting not found")

// SettingRepository is the typed key/value store. The cash balance and the
// document sequence counters live here; both are only written inside the
// caller's transaction under a row lock.
type SettingRepository interface {
	FindAll() ([]model.SystemSetting, error)
	GetString(key, def string) string
	GetNumber(key string, def decimal.Decimal) decimal.Decimal
	GetBool(key string, def bool) bool
	GetJSON(key string, out interface{}) error
	SetValue(tx *gorm.DB, key, value, valueType string) error

	BalanceForUpdate(tx *gorm.DB) (decimal.Decimal, error)
	SetBalance(tx *gorm.DB, balance decimal.Decimal) error
	NextSequence(tx *gorm.DB, key string) (int64, error)

	SeedDefaults() error
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db}
}

func (r *settingRepo) FindAll() ([]model.SystemSetting, error) {
	var settings []model.SystemSetting
	err := r.db.Order("key ASC").Find(&settings).Error
	return settings, err
}

func (r *settingRepo) find(tx *gorm.DB, key string) (*model.SystemSetting, error) {
	var setting model.SystemSetting
	if err := tx.First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepo) GetString(key, def string) string {
	setting, err := r.find(r.db, key)
	if err != nil {
		return def
	}
	return setting.Value
}

func (r *settingRepo) GetNumber(key string, def decimal.Decimal) decimal.Decimal {
	setting, err := r.find(r.db, key)
	if err != nil {
		return def
	}
	value, err := decimal.NewFromString(strings.TrimSpace(setting.Value))
	if err != nil {
		return def
	}
	return value
}

func (r *settingRepo) GetBool(key string, def bool) bool {
	setting, err := r.find(r.db, key)
	if err != nil {
		return def
	}
	return strings.EqualFold(setting.Value, "true")
}

func (r *settingRepo) GetJSON(key string, out interface{}) error {
	setting, err := r.find(r.db, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(setting.Value), out)
}

// SetValue upserts the row. Last writer wins.
func (r *settingRepo) SetValue(tx *gorm.DB, key, value, valueType string) error {
	setting, err := r.find(tx, key)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			return err
		}
		return tx.Create(&model.SystemSetting{Key: key, Value: value, ValueType: valueType}).Error
	}
	return tx.Model(setting).Updates(map[string]interface{}{
		"value":      value,
		"value_type": valueType,
	}).Error
}

// BalanceForUpdate reads the cash balance under a row lock so the
// read-modify-write in the surrounding transaction cannot lose an update.
func (r *settingRepo) BalanceForUpdate(tx *gorm.DB) (decimal.Decimal, error) {
	var setting model.SystemSetting
	err := forUpdate(tx).First(&setting, "key = ?", model.KeyCashBalance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	balance, err := decimal.NewFromString(strings.TrimSpace(setting.Value))
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *settingRepo) SetBalance(tx *gorm.DB, balance decimal.Decimal) error {
	return r.SetValue(tx, model.KeyCashBalance, balance.StringFixed(2), model.SettingNumber)
}

// NextSequence increments the named counter under a row lock and returns the
// new value. Replaces deriving the next document number from max existing id.
func (r *settingRepo) NextSequence(tx *gorm.DB, key string) (int64, error) {
	var setting model.SystemSetting
	err := forUpdate(tx).First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq := model.SystemSetting{Key: key, Value: "1", ValueType: model.SettingNumber}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	current, err := strconv.ParseInt(strings.TrimSpace(setting.Value), 10, 64)
	if err != nil {
		return 0, err
	}
	next := current + 1
	if err := tx.Model(&setting).Update("value", strconv.FormatInt(next, 10)).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// SeedDefaults creates the well-known settings rows if missing.
func (r *settingRepo) SeedDefaults() error {
	defaults := []model.SystemSetting{
		{Key: model.KeyCashBalance, Value: "0.00", ValueType: model.SettingNumber, Description: "Current cash drawer balance"},
		{Key: model.KeyDefaultCurrency, Value: "XOF", ValueType: model.SettingString, Description: "Ledger currency"},
		{Key: model.KeyCompanyName, Value: "GestioStock", ValueType: model.SettingString, Description: "Company name printed on documents"},
	}
	for _, d := range defaults {
		if _, err := r.find(r.db, d.Key); errors.Is(err, ErrSettingNotFound) {
			if err := r.db.Create(&d).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
