package service

import (
	"bytes"
	"fmt"
	"time"

	"go-perfumeria-ws/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	ExportStock() (*bytes.Buffer, error)
	ExportEntradas(from, to time.Time) (*bytes.Buffer, error)
}

type reportService struct {
	perfumeRepo repository.PerfumeRepository
	entradaRepo repository.EntradaRepository
}

func NewReportService(perfumeRepo repository.PerfumeRepository, entradaRepo repository.EntradaRepository) ReportService {
	return &reportService{
		perfumeRepo: perfumeRepo,
		entradaRepo: entradaRepo,
	}
}

// writeSheet fills a worksheet with a bold header row followed by data rows.
func writeSheet(f *excelize.File, sheetName string, headers []string, data [][]interface{}) error {
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell := fmt.Sprintf("%s%d", string(rune('A'+colIdx)), rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range headers {
		col := string(rune('A' + i))
		f.SetColWidth(sheetName, col, col, 18)
	}

	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}
	return nil
}

func (s *reportService) ExportStock() (*bytes.Buffer, error) {
	perfumes, err := s.perfumeRepo.FindAll()
	if err != nil {
		return nil, err
	}

	headers := []string{"SKU", "Nombre", "Marca", "ML", "Stock", "Stock Minimo", "Precio", "Valor Total"}
	var data [][]interface{}
	for _, p := range perfumes {
		total := p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
		data = append(data, []interface{}{
			p.SKU, p.Name, p.Brand, p.ML, p.Stock, p.MinStock,
			p.Price.StringFixed(2), total.StringFixed(2),
		})
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := writeSheet(f, "Inventario", headers, data); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

func (s *reportService) ExportEntradas(from, to time.Time) (*bytes.Buffer, error) {
	entradas, err := s.entradaRepo.FindBetween(from, to)
	if err != nil {
		return nil, err
	}

	headers := []string{"Numero", "Tipo", "Perfume", "Cantidad", "Proveedor", "Fecha Recepcion", "Estado", "Validada Por", "Fecha Validacion"}
	var data [][]interface{}
	for _, e := range entradas {
		perfumeName := ""
		if e.Perfume != nil {
			perfumeName = e.Perfume.Name
		}
		validatedAt := ""
		if e.ValidatedAt != nil {
			validatedAt = e.ValidatedAt.Format("2006-01-02 15:04")
		}
		validatedBy := ""
		if e.ValidatedBy != nil {
			validatedBy = *e.ValidatedBy
		}
		data = append(data, []interface{}{
			e.Number, string(e.Kind), perfumeName, e.Quantity, e.SupplierRef,
			e.ReceiptDate.Format("2006-01-02"), string(e.Status), validatedBy, validatedAt,
		})
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := writeSheet(f, "Entradas", headers, data); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}
