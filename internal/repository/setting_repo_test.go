package repository

import (
	"fmt"
	"testing"

	"gestiostock-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSettingsDB(t *testing.T) (*gorm.DB, SettingRepository) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.SystemSetting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db, NewSettingRepo(db)
}

func TestSettingTypedGetters(t *testing.T) {
	db, repo := setupSettingsDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := repo.SetValue(tx, "greeting", "hello", model.SettingString); err != nil {
			return err
		}
		if err := repo.SetValue(tx, "rate", "19.25", model.SettingNumber); err != nil {
			return err
		}
		if err := repo.SetValue(tx, "enabled", "true", model.SettingBoolean); err != nil {
			return err
		}
		return repo.SetValue(tx, "labels", `{"fr":"Bonjour"}`, model.SettingJSON)
	})
	if err != nil {
		t.Fatalf("set values: %v", err)
	}

	if got := repo.GetString("greeting", "x"); got != "hello" {
		t.Fatalf("GetString = %q", got)
	}
	if got := repo.GetNumber("rate", decimal.Zero); !got.Equal(decimal.RequireFromString("19.25")) {
		t.Fatalf("GetNumber = %s", got)
	}
	if !repo.GetBool("enabled", false) {
		t.Fatal("GetBool = false")
	}
	var labels map[string]string
	if err := repo.GetJSON("labels", &labels); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if labels["fr"] != "Bonjour" {
		t.Fatalf("labels = %v", labels)
	}

	// Defaults for missing or malformed values.
	if got := repo.GetString("missing", "fallback"); got != "fallback" {
		t.Fatalf("missing string = %q", got)
	}
	if got := repo.GetNumber("greeting", decimal.NewFromInt(7)); !got.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("malformed number = %s", got)
	}
}

func TestSettingSetValueOverwrites(t *testing.T) {
	db, repo := setupSettingsDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := repo.SetValue(tx, "company_name", "First", model.SettingString); err != nil {
			return err
		}
		return repo.SetValue(tx, "company_name", "Second", model.SettingString)
	})
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	if got := repo.GetString("company_name", ""); got != "Second" {
		t.Fatalf("value = %q, want Second", got)
	}
	var count int64
	db.Model(&model.SystemSetting{}).Where("key = ?", "company_name").Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}
}

func TestNextSequenceIncrements(t *testing.T) {
	db, repo := setupSettingsDB(t)

	for want := int64(1); want <= 3; want++ {
		var got int64
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			got, err = repo.NextSequence(tx, "invoice_seq_202609")
			return err
		})
		if err != nil {
			t.Fatalf("next sequence: %v", err)
		}
		if got != want {
			t.Fatalf("sequence = %d, want %d", got, want)
		}
	}

	// Independent keys do not share a counter.
	var other int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		other, err = repo.NextSequence(tx, "purchase_order_seq_202609")
		return err
	})
	if err != nil {
		t.Fatalf("other sequence: %v", err)
	}
	if other != 1 {
		t.Fatalf("other = %d, want 1", other)
	}
}

func TestBalanceDefaultsToZero(t *testing.T) {
	db, repo := setupSettingsDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		balance, err := repo.BalanceForUpdate(tx)
		if err != nil {
			return err
		}
		if !balance.IsZero() {
			t.Fatalf("balance = %s, want 0", balance)
		}
		return repo.SetBalance(tx, decimal.RequireFromString("123.45"))
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	if got := repo.GetNumber(model.KeyCashBalance, decimal.Zero); !got.Equal(decimal.RequireFromString("123.45")) {
		t.Fatalf("stored balance = %s", got)
	}
}
