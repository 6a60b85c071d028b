package product

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
	"gopkg.in/yaml.v3"
)

// catalogFile is the document shape shared by the YAML and JSON catalogs.
type catalogFile struct {
	Products []Product `json:"products" yaml:"products"`
}

// FileRepository loads the catalog from static configuration. The format is
// chosen by extension: .yaml/.yml, .json or .xlsx.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) List() ([]Product, error) {
	switch ext := strings.ToLower(filepath.Ext(r.path)); ext {
	case ".yaml", ".yml":
		return r.decode(yaml.Unmarshal)
	case ".json":
		return r.decode(json.Unmarshal)
	case ".xlsx":
		return r.listSpreadsheet()
	default:
		return nil, fmt.Errorf("catalog %s: unsupported format %q", r.path, ext)
	}
}

func (r *FileRepository) decode(unmarshal func([]byte, any) error) ([]Product, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var doc catalogFile
	if err := unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", r.path, err)
	}
	if doc.Products == nil {
		return []Product{}, nil
	}
	return doc.Products, nil
}

// spreadsheet column order, first row is the header
const (
	colID = iota
	colName
	colDescription
	colPrice
	colImage
	colRating
	colStock
	colWeight
	colColors
	colFeatures
)

func (r *FileRepository) listSpreadsheet() ([]Product, error) {
	xlFile, err := xlsx.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return []Product{}, nil
	}

	sheet := xlFile.Sheets[0]
	out := make([]Product, 0, len(sheet.Rows))
	for i, row := range sheet.Rows {
		if i == 0 || row == nil {
			continue
		}
		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		id := get(colID)
		if id == "" {
			continue
		}
		p := Product{
			ID:          id,
			Name:        get(colName),
			Description: get(colDescription),
			Image:       get(colImage),
			Weight:      get(colWeight),
			Colors:      splitList(get(colColors)),
			Features:    splitList(get(colFeatures)),
		}
		if p.Price, err = parseInt(get(colPrice)); err != nil {
			return nil, fmt.Errorf("catalog row %d: price: %w", i+1, err)
		}
		if v := get(colRating); v != "" {
			if p.Rating, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("catalog row %d: rating: %w", i+1, err)
			}
		}
		stock, err := parseInt(get(colStock))
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: stock: %w", i+1, err)
		}
		p.Stock = int(stock)
		out = append(out, p)
	}
	return out, nil
}

// parseInt accepts spreadsheet renderings such as "7499" or "7499.0".
func parseInt(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("%q is not a whole number", v)
	}
	return int64(f), nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
