// Package spreadsheet lee planillas de ítems (XLSX o CSV) y exporta reportes en XLSX.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/pkg/brl"
)

// Columnas reconocidas en la fila de cabecera (sin acentos, minúsculas).
const (
	colCode        = "codigo"
	colDescription = "descricao"
	colUnit        = "unidade"
	colValue       = "valor"
)

var accents = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e", "í", "i",
	"ó", "o", "ô", "o", "õ", "o", "ú", "u", "ç", "c",
)

func normalizeHeader(s string) string {
	return accents.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// ReadItems interpreta la planilla según la extensión del archivo (.xlsx o .csv).
func ReadItems(r io.Reader, filename string) ([]dto.ItemImportRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ReadItemsXLSX(r)
	case ".csv", ".txt":
		return ReadItemsCSV(r)
	default:
		return nil, fmt.Errorf("formato de planilla %q: %w", filepath.Ext(filename), domain.ErrInvalidInput)
	}
}

// ReadItemsXLSX lee la primera hoja del libro.
func ReadItemsXLSX(r io.Reader) ([]dto.ItemImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", domain.ErrInvalidInput)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx sin hojas: %w", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	return mapRows(rows)
}

// ReadItemsCSV lee un CSV separado por ';'. Si el contenido no es UTF-8 válido se decodifica
// como Windows-1252, que es lo que exporta Excel en equipos configurados en portugués.
func ReadItemsCSV(r io.Reader) ([]dto.ItemImportRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		if raw, err = charmap.Windows1252.NewDecoder().Bytes(raw); err != nil {
			return nil, fmt.Errorf("decodificar windows-1252: %w", err)
		}
	}
	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %v: %w", err, domain.ErrInvalidInput)
	}
	return mapRows(rows)
}

var errMissingColumns = errors.New("la cabecera debe tener Código y Descrição")

// mapRows ubica las columnas por nombre en la primera fila no vacía.
// Line es el número de fila de la planilla (1 = cabecera).
func mapRows(rows [][]string) ([]dto.ItemImportRow, error) {
	headerAt := -1
	for i, r := range rows {
		if strings.TrimSpace(strings.Join(r, "")) != "" {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, fmt.Errorf("planilla vacía: %w", domain.ErrInvalidInput)
	}
	idx := map[string]int{}
	for i, h := range rows[headerAt] {
		if _, seen := idx[normalizeHeader(h)]; !seen {
			idx[normalizeHeader(h)] = i
		}
	}
	_, hasCode := idx[colCode]
	_, hasDesc := idx[colDescription]
	if !hasCode || !hasDesc {
		return nil, fmt.Errorf("%w: %w", errMissingColumns, domain.ErrInvalidInput)
	}
	cell := func(r []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(r) {
			return ""
		}
		return strings.TrimSpace(r[i])
	}

	var out []dto.ItemImportRow
	for i := headerAt + 1; i < len(rows); i++ {
		r := rows[i]
		if strings.TrimSpace(strings.Join(r, "")) == "" {
			continue
		}
		out = append(out, dto.ItemImportRow{
			Line:        i + 1,
			Code:        cell(r, colCode),
			Description: cell(r, colDescription),
			Unit:        cell(r, colUnit),
			UnitValue:   brl.Parse(cell(r, colValue)),
		})
	}
	return out, nil
}
