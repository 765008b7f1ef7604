package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// openTestDB gives each test its own in-memory database. cache=shared keeps
// the database alive across the connections gorm pools.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Company{},
		&types.Deal{},
		&types.Partner{},
		&types.RequirementDefinition{},
		&types.ChecklistStatusRecord{},
		&types.DealRelease{},
		&types.PartnerAccessLogEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCompanyAndDeal(t *testing.T, db *gorm.DB, assetType, fundingAmount string) *types.Deal {
	t.Helper()
	company := &types.Company{ID: uuid.New(), Name: "Harborview Holdings"}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("create company: %v", err)
	}
	deal := &types.Deal{
		ID:            uuid.New(),
		CompanyID:     company.ID,
		Name:          "Harborview refinance",
		AssetType:     assetType,
		FundingAmount: fundingAmount,
	}
	if err := db.Create(deal).Error; err != nil {
		t.Fatalf("create deal: %v", err)
	}
	return deal
}

func seedPartner(t *testing.T, db *gorm.DB) *types.Partner {
	t.Helper()
	partner := &types.Partner{
		ID:       uuid.New(),
		Name:     "Dana Whitfield",
		FirmName: "Crestline Capital",
		Email:    fmt.Sprintf("%s@crestline.example", uuid.NewString()),
	}
	if err := db.Create(partner).Error; err != nil {
		t.Fatalf("create partner: %v", err)
	}
	return partner
}
