package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/mygigs/mygigs-backend/internal/config"
	"github.com/mygigs/mygigs-backend/internal/db"
	"github.com/mygigs/mygigs-backend/internal/handlers"
	"github.com/mygigs/mygigs-backend/internal/services"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env: %s", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := db.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()
	log.Println("Successfully connected to MongoDB")

	database := client.Database(cfg.Database)

	// Initialize services
	userService := services.NewUserService(database)
	clerkService := services.NewClerkService(cfg)
	darajaClient := services.NewDarajaClient(cfg)

	txStore := services.NewMongoTransactionStore(database)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := txStore.EnsureIndexes(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}
	cancel()

	paymentService := services.NewPaymentService(txStore, darajaClient, userService, clerkService)
	freelancerService := services.NewFreelancerService(database)
	professionService := services.NewProfessionService(database, freelancerService)
	reviewService := services.NewReviewService(database, freelancerService)
	jobService := services.NewJobService(database)
	testimonialService := services.NewTestimonialService(database)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, userService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg.CallbackToken)
	freelancerHandler := handlers.NewFreelancerHandler(freelancerService)
	professionHandler := handlers.NewProfessionHandler(professionService, freelancerService)
	reviewHandler := handlers.NewReviewHandler(reviewService, freelancerService)
	jobHandler := handlers.NewJobHandler(jobService)
	testimonialHandler := handlers.NewTestimonialHandler(testimonialService)

	// Set up router
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")

	router.HandleFunc("/api/auth/admin-login", authHandler.AdminLogin).Methods("POST")
	router.HandleFunc("/api/users/me", authHandler.RequireAuth(authHandler.Me)).Methods("GET")

	router.HandleFunc("/api/freelancers", freelancerHandler.List).Methods("GET")
	router.HandleFunc("/api/freelancers/featured", freelancerHandler.Featured).Methods("GET")
	router.HandleFunc("/api/freelancers/me", authHandler.RequireAuth(freelancerHandler.Me)).Methods("GET")
	router.HandleFunc("/api/freelancers/me", authHandler.RequireAuth(freelancerHandler.UpdateMe)).Methods("PUT", "PATCH")
	router.HandleFunc("/api/freelancers/{freelancerID}", freelancerHandler.Get).Methods("GET")
	router.HandleFunc("/api/freelancers/{freelancerID}/reviews", reviewHandler.ListByFreelancer).Methods("GET")
	router.HandleFunc("/api/freelancers/{freelancerID}/reviews", authHandler.RequireAuth(reviewHandler.Create)).Methods("POST")

	router.HandleFunc("/api/reviews/{reviewID}/helpful", reviewHandler.MarkHelpful).Methods("POST")
	router.HandleFunc("/api/reviews/{reviewID}/reply", authHandler.RequireAuth(reviewHandler.AddReply)).Methods("POST")

	router.HandleFunc("/api/professions", professionHandler.List).Methods("GET")
	router.HandleFunc("/api/professions", authHandler.RequireAdmin(professionHandler.Create)).Methods("POST")
	router.HandleFunc("/api/professions/{professionID}", professionHandler.Get).Methods("GET")
	router.HandleFunc("/api/professions/{professionID}", authHandler.RequireAdmin(professionHandler.Delete)).Methods("DELETE")
	router.HandleFunc("/api/professions/{professionID}/freelancers", professionHandler.Freelancers).Methods("GET")

	router.HandleFunc("/api/jobs", jobHandler.List).Methods("GET")
	router.HandleFunc("/api/jobs", authHandler.RequireAdmin(jobHandler.Create)).Methods("POST")
	router.HandleFunc("/api/jobs/featured", jobHandler.Featured).Methods("GET")
	router.HandleFunc("/api/jobs/{jobID}", jobHandler.Get).Methods("GET")
	router.HandleFunc("/api/jobs/{jobID}", authHandler.RequireAdmin(jobHandler.Update)).Methods("PATCH", "PUT")
	router.HandleFunc("/api/jobs/{jobID}", authHandler.RequireAdmin(jobHandler.Delete)).Methods("DELETE")

	router.HandleFunc("/api/testimonials", testimonialHandler.List).Methods("GET")
	router.HandleFunc("/api/testimonials", testimonialHandler.Create).Methods("POST")
	router.HandleFunc("/api/admin/testimonials", authHandler.RequireAdmin(testimonialHandler.ListAll)).Methods("GET")
	router.HandleFunc("/api/testimonials/{testimonialID}/approve", authHandler.RequireAdmin(testimonialHandler.Approve)).Methods("POST")
	router.HandleFunc("/api/testimonials/{testimonialID}", authHandler.RequireAdmin(testimonialHandler.Delete)).Methods("DELETE")

	router.HandleFunc("/api/mpesa/stkpush", paymentHandler.StkPush).Methods("POST")
	router.HandleFunc("/api/mpesa/callback", paymentHandler.Callback).Methods("POST")
	router.HandleFunc("/api/check-status/{checkoutRequestID}", paymentHandler.CheckStatusByID).Methods("GET")
	router.HandleFunc("/api/check-status", paymentHandler.CheckStatusByClerkID).Methods("GET")

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
