// internal/service/promotion/infrastructure/sheets_ledger.go
package infrastructure

import (
	"context"
	"strings"
	"time"

	"garde/internal/pkg/sheets"
	"garde/internal/service/promotion/domain"
)

const usageTab = "PromoUsage"

// PromoUsage tab 的列布局：Phone | Address | PromoCode | Date
const (
	colPhone = iota
	colAddress
	colPromoCode
	colDate
	usageColumns
)

var usageHeaders = []string{"Phone", "Address", "PromoCode", "Date"}

// SheetsLedger 把电子表格的 PromoUsage tab 当使用台账。
// tab 不存在时自动建（运营偶尔会清表重建）。
// 行里存原始输入便于人工核对，匹配时在内存里规整比较。
type SheetsLedger struct {
	client *sheets.Client
}

func NewSheetsLedger(ctx context.Context, client *sheets.Client) (*SheetsLedger, error) {
	if err := client.EnsureTab(ctx, usageTab, usageHeaders); err != nil {
		return nil, err
	}
	return &SheetsLedger{client: client}, nil
}

func (l *SheetsLedger) HasUsage(ctx context.Context, phone, address, code string) (bool, error) {
	rows, err := l.client.ReadRows(ctx, usageTab, usageColumns)
	if err != nil {
		return false, err
	}

	searchPhone := domain.NormalizeKey(phone)
	searchAddress := domain.NormalizeKey(address)
	searchCode := strings.ToLower(strings.TrimSpace(code))

	for _, row := range rows {
		rowCode := strings.ToLower(strings.TrimSpace(row[colPromoCode]))
		if rowCode != searchCode {
			continue
		}
		// 码相同的前提下，手机号或地址任一匹配即算用过
		if domain.NormalizeKey(row[colPhone]) == searchPhone ||
			domain.NormalizeKey(row[colAddress]) == searchAddress {
			return true, nil
		}
	}
	return false, nil
}

func (l *SheetsLedger) Record(ctx context.Context, phone, address, code string) error {
	return l.client.AppendRow(ctx, usageTab, []interface{}{
		phone,
		address,
		domain.NormalizeCode(code),
		time.Now().Format("2006-01-02 15:04:05"),
	})
}
