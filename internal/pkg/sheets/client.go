// internal/pkg/sheets/client.go
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Client 封装对一个电子表格的读写。
// 店铺的轻量部署把表格当数据库用：Products 是商品表，
// Orders 是订单表，PromoUsage 是优惠码使用台账。
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewClient 使用 Service Account 凭证文件创建客户端。
func NewClient(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// ReadRows 读取一个 tab 的数据行（跳过表头）。
// 单元格统一转成 string，缺失的尾列补空串，调用方按列号取值。
func (c *Client) ReadRows(ctx context.Context, tab string, columns int) ([][]string, error) {
	readRange := fmt.Sprintf("%s!A2:%c", tab, 'A'+columns-1)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from tab %s: %w", tab, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, columns)
		for i := 0; i < columns && i < len(raw); i++ {
			row[i] = fmt.Sprint(raw[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRow 在 tab 末尾追加一行。
func (c *Client) AppendRow(ctx context.Context, tab string, values []interface{}) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{values}}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, tab+"!A:Z", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row to tab %s: %w", tab, err)
	}
	return nil
}

// UpdateCell 覆写 tab 中的单个单元格，a1 形如 "M5"。
func (c *Client) UpdateCell(ctx context.Context, tab, a1 string, value interface{}) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, fmt.Sprintf("%s!%s", tab, a1), vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update cell %s in tab %s: %w", a1, tab, err)
	}
	return nil
}

// EnsureTab 确保 tab 存在，不存在则带表头创建。
// 台账 tab 允许运营手工删掉重建，服务端兜底补上。
func (c *Client) EnsureTab(ctx context.Context, tab string, headers []string) error {
	doc, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to load spreadsheet: %w", err)
	}
	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == tab {
			return nil
		}
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: tab},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to create tab %s: %w", tab, err)
	}

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{headerRow}}
	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, tab+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header row for tab %s: %w", tab, err)
	}
	return nil
}
