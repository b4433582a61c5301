package main

import (
	"flag"
	"log"
	"os"

	"liberia/internal/validation"
)

func main() {
	var baseURL, secret, token string
	flag.StringVar(&baseURL, "url", "http://localhost:8081", "Base URL for deployment validation")
	flag.StringVar(&secret, "webhook-secret", os.Getenv("WOO_WEBHOOK_SECRET"), "Secret used to sign the webhook ping")
	flag.StringVar(&token, "token", os.Getenv("VALIDATION_SESSION_TOKEN"), "Session token for authenticated checks")
	flag.Parse()

	log.Printf("Starting deployment validation against: %s", baseURL)

	validator := validation.NewDeploymentValidator(baseURL, secret, token)
	if err := validator.ValidateAll(); err != nil {
		log.Fatalf("❌ Валидация не пройдена: %v", err)
	}

	log.Println("✅ Валидация успешно пройдена!")
}
