package webapp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// Внешние зависимости страницы
const (
	PlotlyScript   = "https://cdn.plot.ly/plotly-2.35.2.min.js"
	BootstrapStyle = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"
)

// Handler описание страницы для go-app
func Handler(title string) *app.Handler {
	return &app.Handler{
		Name:        "Issue Activity Report",
		ShortName:   "Issues",
		Title:       title,
		Description: "Issue tracker activity report",
		Styles:      []string{BootstrapStyle},
		Scripts:     []string{PlotlyScript},
	}
}

// Generate пишет статический сайт отчета в dir: страницы go-app, данные
// в web/report.json и, если задан wasmPath, модуль web/app.wasm.
// Перед вызовом должны быть зарегистрированы маршруты (Routes).
func Generate(dir string, p Payload, wasmPath string) error {
	webDir := filepath.Join(dir, "web")
	if err := os.MkdirAll(webDir, 0o755); err != nil {
		return fmt.Errorf("failed to create site dir: %w", err)
	}

	if err := writePayloadFile(filepath.Join(webDir, filepath.Base(PayloadPath)), p); err != nil {
		return err
	}

	if wasmPath != "" {
		if err := copyFile(wasmPath, filepath.Join(webDir, "app.wasm")); err != nil {
			return fmt.Errorf("failed to copy wasm module: %w", err)
		}
	}

	if err := app.GenerateStaticWebsite(dir, Handler(p.Title)); err != nil {
		return fmt.Errorf("failed to generate static website: %w", err)
	}
	return nil
}

func writePayloadFile(path string, p Payload) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create payload file: %w", err)
	}
	if err := WritePayload(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
