package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/franciscosanchezn/pizza-tracker/internal/config"
	"github.com/franciscosanchezn/pizza-tracker/internal/database"
	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Parse command line flags
	role := flag.String("role", "admin", "Owner role (admin or user)")
	password := flag.String("password", "dev-password", "Password for a newly created owner")
	flag.Parse()
	if *role != "admin" && *role != "user" {
		log.Fatalf("Unknown role %q", *role)
	}

	_ = godotenv.Load()
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	db, err := database.InitDatabase(conf.Database())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	ctx := context.Background()
	owner, err := ownerForRole(ctx, db, *role, *password)
	if err != nil {
		log.Fatal("Failed to get owner for role:", err)
	}

	clients := services.NewClientService(db)
	name := fmt.Sprintf("Development %s Client", *role)
	existing, err := clients.List(ctx, owner.ID)
	if err != nil {
		log.Fatal("Failed to list clients:", err)
	}
	for _, client := range existing {
		if client.Name == name {
			fmt.Printf("Development client already exists for role '%s'!\n", *role)
			fmt.Printf("Client ID: %s\n", client.ID)
			fmt.Println("The secret was shown when it was created. Delete the client to issue a new one.")
			return
		}
	}

	issued, err := clients.Create(ctx, owner.ID, services.NewClient{Name: name, Domain: "http://localhost", Scopes: "read write"})
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Printf("✓ Development OAuth client created for role '%s'!\n", *role)
	fmt.Printf("Client ID: %s\n", issued.Client.ID)
	fmt.Printf("Client Secret: %s\n", issued.Secret)
	fmt.Printf("Owner: %s (ID: %d)\n", owner.Email, owner.ID)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://%s:%d/api/v1/oauth/token \\\n", conf.Host, conf.Port)
	fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", issued.Client.ID)
	fmt.Printf("  -d 'client_secret=%s'\n", issued.Secret)
}

// ownerForRole finds or registers <role>@pizza.com and makes sure it carries the role
func ownerForRole(ctx context.Context, db *gorm.DB, role, password string) (*models.User, error) {
	email := fmt.Sprintf("%s@pizza.com", role)

	var user models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		fmt.Printf("Found existing user: %s (ID: %d, Role: %s)\n", user.Email, user.ID, user.Role)
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := services.NewUserService(db).Register(ctx, email, password, fmt.Sprintf("%s User", role))
		if err != nil {
			return nil, err
		}
		user = *created
		fmt.Printf("Created new user: %s (ID: %d, password: %s)\n", user.Email, user.ID, password)
	default:
		return nil, err
	}

	if user.Role != role {
		if err := db.WithContext(ctx).Model(&user).Update("role", role).Error; err != nil {
			return nil, err
		}
		user.Role = role
	}
	return &user, nil
}
