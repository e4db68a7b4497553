package main

import (
	"log"

	"samurai/internal/api"
)

// @title           SAMurAI API
// @version         1.0
// @description     Бэкенд управления программными активами: лицензии, использование, отчёты и рекомендации

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Передавайте JWT токен в формате "Bearer {token}"

func main() {
	log.Println("App start")
	api.StartServer()
	log.Println("App terminated")
}
