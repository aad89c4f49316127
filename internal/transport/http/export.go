package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"minibizz/planning/internal/domain"
)

const (
	agendaSheet = "Agenda"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var agendaHeader = []interface{}{"Date", "Start", "End", "Title", "Client", "Kind", "Status", "Priority", "Location"}

// ExportAgenda writes the filtered agenda of the period as an xlsx workbook.
func (h *Handler) ExportAgenda(c echo.Context) error {
	log := h.logger("agenda.export")
	owner := ownerFrom(c)

	items, q, err := h.agenda(c, log, owner)
	if err != nil {
		return err
	}

	buf, err := agendaWorkbook(items, h.svc.Location())
	if err != nil {
		log.Error("agenda export failed", slog.Any("err", err), slog.String("owner_id", owner))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	filename := fmt.Sprintf("agenda-%s-%s.xlsx", q.View, q.Date.Format(time.DateOnly))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	log.Info("agenda exported", slog.String("owner_id", owner), slog.Int("rows", len(items)))
	return c.Blob(http.StatusOK, xlsxMIME, buf)
}

func agendaWorkbook(items []domain.Item, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", agendaSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(agendaSheet, "A1", &agendaHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(agendaHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(agendaSheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, it := range items {
		start := it.Start.In(loc)
		end := it.End.In(loc)
		row := []interface{}{
			start.Format(time.DateOnly),
			start.Format("15:04"),
			end.Format("15:04"),
			it.Title,
			domain.ClientName(it.Client),
			string(it.Kind),
			string(it.Status),
			string(it.Priority),
			it.Location,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(agendaSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
