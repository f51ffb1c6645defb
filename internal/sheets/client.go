package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	oauthjwt "golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// The Usuarios sheet holds one member per row, columns A-L positional:
// CPF, Senha, Nome, Telefone, Email, Empresa, Tipo, Status, DataValidade,
// DataPagamento, IsDependente, TitularCpf. Row 1 is the header.
const (
	sheetName     = "Usuarios"
	dataRange     = sheetName + "!A2:L"
	firstDataRow  = 2
	columnCount   = 12
)

// Client is the remote tabular store: a values range read and written
// positionally. Row indexes are zero-based into the data range.
type Client interface {
	GetRows(ctx context.Context) ([][]string, error)
	AppendRow(ctx context.Context, row []string) error
	UpdateRow(ctx context.Context, rowIndex int, row []string) error
	UpdateCell(ctx context.Context, rowIndex int, column string, value string) error
}

// Config carries the Google service-account credentials.
type Config struct {
	SpreadsheetID string
	ClientEmail   string
	PrivateKey    string
}

type googleClient struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewClient builds a Sheets values client authenticated with a
// service-account JWT.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.SpreadsheetID == "" || cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, fmt.Errorf("google sheets credentials are not configured")
	}

	conf := &oauthjwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &googleClient{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

func (c *googleClient) GetRows(ctx context.Context) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, dataRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", dataRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, columnCount)
		for i := 0; i < columnCount && i < len(raw); i++ {
			row[i] = fmt.Sprint(raw[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *googleClient) AppendRow(ctx context.Context, row []string) error {
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, dataRange, valueRange(row)).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

func (c *googleClient) UpdateRow(ctx context.Context, rowIndex int, row []string) error {
	sheetRow := rowIndex + firstDataRow
	updateRange := fmt.Sprintf("%s!A%d:L%d", sheetName, sheetRow, sheetRow)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, updateRange, valueRange(row)).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update row %d: %w", sheetRow, err)
	}
	return nil
}

func (c *googleClient) UpdateCell(ctx context.Context, rowIndex int, column string, value string) error {
	sheetRow := rowIndex + firstDataRow
	updateRange := fmt.Sprintf("%s!%s%d", sheetName, column, sheetRow)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, updateRange, valueRange([]string{value})).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update cell %s: %w", updateRange, err)
	}
	return nil
}

func valueRange(row []string) *sheetsapi.ValueRange {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return &sheetsapi.ValueRange{Values: [][]interface{}{cells}}
}
