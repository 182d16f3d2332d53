package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"cyberdock/internal/export"
)

const exportBaseName = "relatorio_expedicao"

// ShipmentsXLSXAction downloads the expedition spreadsheet.
func (h *Handlers) ShipmentsXLSXAction(c *fiber.Ctx) error {
	res, err := h.shipments(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, res); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, export.XLSXContentType)
	c.Attachment(exportBaseName + ".xlsx")
	return c.Send(buf.Bytes())
}

// ShipmentsPDFAction downloads the expedition document.
func (h *Handlers) ShipmentsPDFAction(c *fiber.Ctx) error {
	res, err := h.shipments(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, res); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, export.PDFContentType)
	c.Attachment(exportBaseName + ".pdf")
	return c.Send(buf.Bytes())
}
