// Package export renders the expedition screen as XLSX and PDF documents.
package export

import (
	"fmt"
	"time"

	"cyberdock/internal/analytics"
	"cyberdock/internal/engine"
	"cyberdock/internal/format"
	"cyberdock/internal/timeframe"
)

const (
	SheetData         = "Dados"
	SheetLevel1       = "Hierarquia_1"
	SheetLevel2       = "Hierarquia_2"
	SheetShipmentType = "Tipo_Envio"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	PDFContentType  = "application/pdf"

	// Channel is the sales channel column of the detail sheet.
	Channel = "MERCADO LIVRE"
)

var detailHeader = []string{
	"ID VENDA",
	"NOME CLIENTE",
	"CONTA",
	"TIPO DE ENVIO",
	"QUANTIDADE",
	"PRODUTO [HIERARQUIA 1]",
	"DATA DE ENVIO",
}

func detailRecord(r analytics.ShipmentRow) []string {
	return []string{
		r.OrderID,
		r.Receiver,
		r.Account,
		r.ShipmentType,
		format.Integer(r.Units),
		r.Level1,
		r.Deadline,
	}
}

type rollupSection struct {
	sheet string
	title string
	table analytics.RollupTable
}

func rollupSections(res engine.ShipmentsResponse) []rollupSection {
	return []rollupSection{
		{sheet: SheetLevel1, title: "Hierarquia 1", table: res.Level1},
		{sheet: SheetLevel2, title: "Hierarquia 2", table: res.Level2},
		{sheet: SheetShipmentType, title: "Tipo de Envio", table: res.ShipmentType},
	}
}

func rollupHeader(title string) []string {
	return []string{title, "Quantidade", "Quantidade de Vendas"}
}

// displayPeriod turns an engine period into "dd/mm/yyyy a dd/mm/yyyy".
func displayPeriod(p engine.Period) string {
	if p.From == "" {
		return "—"
	}
	from, err := time.Parse(timeframe.DateLayout, p.From)
	if err != nil {
		return fmt.Sprintf("%s a %s", p.From, p.To)
	}
	to, err := time.Parse(timeframe.DateLayout, p.To)
	if err != nil {
		return fmt.Sprintf("%s a %s", p.From, p.To)
	}
	return fmt.Sprintf("%s a %s", format.Date(from), format.Date(to))
}
