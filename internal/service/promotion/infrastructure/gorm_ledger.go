// internal/service/promotion/infrastructure/gorm_ledger.go
package infrastructure

import (
	"context"

	"garde/internal/service/promotion/domain"

	"gorm.io/gorm"
)

// PromoUsageModel 对应数据库中的 promo_usage 表。
// 规整后的键单独存列并建索引，查询不用全表扫。
type PromoUsageModel struct {
	gorm.Model
	Phone       string
	Address     string
	NormPhone   string `gorm:"index:idx_usage_phone"`
	NormAddress string `gorm:"index:idx_usage_address"`
	Code        string `gorm:"index"`
}

func (PromoUsageModel) TableName() string {
	return "promo_usage"
}

// GormLedger 是 UsageLedger 的 MySQL 实现。
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) (*GormLedger, error) {
	if err := db.AutoMigrate(&PromoUsageModel{}); err != nil {
		return nil, err
	}
	return &GormLedger{db: db}, nil
}

func (l *GormLedger) HasUsage(ctx context.Context, phone, address, code string) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&PromoUsageModel{}).
		Where("code = ?", domain.NormalizeCode(code)).
		Where("norm_phone = ? OR norm_address = ?", domain.NormalizeKey(phone), domain.NormalizeKey(address)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (l *GormLedger) Record(ctx context.Context, phone, address, code string) error {
	return l.db.WithContext(ctx).Create(&PromoUsageModel{
		Phone:       phone,
		Address:     address,
		NormPhone:   domain.NormalizeKey(phone),
		NormAddress: domain.NormalizeKey(address),
		Code:        domain.NormalizeCode(code),
	}).Error
}
