// Package view renders the employee bills page as HTML.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	billapp "github.com/billed/backend/internal/application/bill"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// previewWidth is the width of the justification image in the modal
const previewWidth = 500

var funcMap = template.FuncMap{
	"amount": formatAmount,
}

var pages = template.Must(template.New("bills").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))

// Props are the inputs of the bills page
type Props struct {
	Data    []billapp.DisplayBill
	Loading bool
	// Error is the message shown instead of the table, e.g. "Erreur 404"
	Error string
	// PreviewURL opens the justification modal on this file when set
	PreviewURL string
	Lang       string
}

type pageData struct {
	Lang         string
	Active       string
	Loading      bool
	Error        string
	Bills        []billapp.DisplayBill
	PreviewURL   string
	PreviewWidth int
}

func newPageData(p Props) pageData {
	return pageData{
		Lang:         langOrDefault(p.Lang),
		Active:       "bills",
		Loading:      p.Loading,
		Error:        p.Error,
		Bills:        p.Data,
		PreviewURL:   p.PreviewURL,
		PreviewWidth: previewWidth,
	}
}

// Render writes the full bills page. Loading wins over Error, Error wins
// over Data. Rows are rendered in the order given.
func Render(w io.Writer, p Props) error {
	if err := pages.ExecuteTemplate(w, "layout", newPageData(p)); err != nil {
		return fmt.Errorf("failed to render bills page: %w", err)
	}
	return nil
}

// BillsUI renders the bills page to a string
func BillsUI(p Props) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderNewBill writes the new bill page with the "Nouvelle note" tab active
func RenderNewBill(w io.Writer, lang string) error {
	data := pageData{Lang: langOrDefault(lang), Active: "new-bill"}
	if err := pages.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("failed to render new bill page: %w", err)
	}
	return nil
}

// RenderLogin writes the sign-in page, showing errMsg above the form when set
func RenderLogin(w io.Writer, lang, errMsg string) error {
	data := pageData{Lang: langOrDefault(lang), Error: errMsg}
	if err := pages.ExecuteTemplate(w, "login", data); err != nil {
		return fmt.Errorf("failed to render login page: %w", err)
	}
	return nil
}

// RenderModal writes only the #modaleFile fragment showing url
func RenderModal(w io.Writer, url string) error {
	data := pageData{PreviewURL: url, PreviewWidth: previewWidth}
	if err := pages.ExecuteTemplate(w, "modal", data); err != nil {
		return fmt.Errorf("failed to render preview modal: %w", err)
	}
	return nil
}

func langOrDefault(lang string) string {
	if lang == "" {
		return "fr"
	}
	return lang
}

func formatAmount(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.String()
	}
	return d.StringFixed(2)
}
