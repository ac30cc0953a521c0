package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/CoFoundry/api-collaboration/internal/agreement"
	"github.com/CoFoundry/api-collaboration/internal/auth"
	"github.com/CoFoundry/api-collaboration/internal/models"
	"github.com/CoFoundry/api-collaboration/internal/project"
	"github.com/CoFoundry/api-collaboration/internal/user"
	"github.com/CoFoundry/api-collaboration/internal/utils/db"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := database.AutoMigrate(
		&user.User{},
		&project.Project{},
		&project.Milestone{},
		&models.Agreement{},
		&models.Participant{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Handlers
	userHandler := user.NewHandler(database)
	projectHandler := project.NewHandler(database)
	agreementHandler := agreement.NewHandler(database)

	// Router
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/login", userHandler.Login).Methods("POST")
	r.HandleFunc("/users", userHandler.Create).Methods("POST")
	r.HandleFunc("/users/reset-password", userHandler.ResetPassword).Methods("POST")

	// Authenticated routes
	api := r.NewRoute().Subrouter()
	api.Use(auth.Middleware)

	// User routes
	api.HandleFunc("/me", userHandler.Me).Methods("GET")
	api.HandleFunc("/me/summary", userHandler.Summary).Methods("GET")
	api.HandleFunc("/users", userHandler.List).Methods("GET")
	api.HandleFunc("/users/{id}", userHandler.GetByID).Methods("GET")
	api.HandleFunc("/users/{id}", userHandler.Update).Methods("PUT")
	api.HandleFunc("/users/{id}", userHandler.Delete).Methods("DELETE")
	api.HandleFunc("/users/{id}/summary", userHandler.Summary).Methods("GET")

	// Project routes
	api.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	api.HandleFunc("/projects", projectHandler.List).Methods("GET")
	api.HandleFunc("/projects/{id}", projectHandler.GetByID).Methods("GET")
	api.HandleFunc("/projects/{id}", projectHandler.Update).Methods("PUT")
	api.HandleFunc("/projects/{id}", projectHandler.Delete).Methods("DELETE")
	api.HandleFunc("/projects/{id}/milestones", projectHandler.CreateMilestone).Methods("POST")
	api.HandleFunc("/projects/{id}/milestones", projectHandler.ListMilestones).Methods("GET")
	api.HandleFunc("/milestones/{id}/complete", projectHandler.CompleteMilestone).Methods("PATCH")

	// Agreement routes
	api.HandleFunc("/agreements", agreementHandler.Create).Methods("POST")
	api.HandleFunc("/agreements", agreementHandler.List).Methods("GET")
	api.HandleFunc("/agreements/{id}", agreementHandler.GetByID).Methods("GET")
	api.HandleFunc("/agreements/{id}/accept", agreementHandler.Accept).Methods("POST")
	api.HandleFunc("/agreements/{id}/reject", agreementHandler.Reject).Methods("POST")
	api.HandleFunc("/agreements/{id}/complete", agreementHandler.Complete).Methods("POST")
	api.HandleFunc("/agreements/{id}/cancel", agreementHandler.Cancel).Methods("POST")
	api.HandleFunc("/agreements/{id}/counter", agreementHandler.Counter).Methods("POST")
	api.HandleFunc("/agreements/{id}/pass-turn", agreementHandler.PassTurn).Methods("POST")
	api.HandleFunc("/agreements/{id}/participants", agreementHandler.ListParticipants).Methods("GET")
	api.HandleFunc("/agreements/{id}/turn", agreementHandler.WhoseTurn).Methods("GET")
	api.HandleFunc("/agreements/{id}/counter-offers", agreementHandler.CounterOffersList).Methods("GET")
	api.HandleFunc("/agreements/{id}/counter-offers/latest", agreementHandler.LatestCounterOffer).Methods("GET")
	api.HandleFunc("/agreements/{id}/cost", agreementHandler.Cost).Methods("GET")

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Println("Server running on http://localhost:" + port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
