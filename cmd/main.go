package main

import (
	"log"

	_ "gw-transaction-view/docs"
	"gw-transaction-view/internal/app"
)

// @title           Transaction View API
// @version         1.0
// @description     API для нормализации и отображения истории транзакций кошелька
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app, err := app.NewApp()
	if err != nil {
		log.Fatalf("Ошибка создания приложения: %v", err)
	}

	app.BuildAuthLayer()
	if err := app.BuildHistoryLayer(); err != nil {
		log.Fatalf("Ошибка сборки слоя history: %v", err)
	}
	if err := app.BuildInfoLayer(); err != nil {
		log.Fatalf("Ошибка сборки слоя info: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Ошибка при работе приложения: %v", err)
	}
}
