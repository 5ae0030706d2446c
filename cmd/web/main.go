// Страница отчета в браузере. Собирается командой
// GOARCH=wasm GOOS=js go build -o web/app.wasm ./cmd/web
package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/untibullet/issue-activity-report/internal/webapp"
)

func main() {
	webapp.Routes()
	app.RunWhenOnBrowser()
}
