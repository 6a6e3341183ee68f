package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/xenocrm/crm-backend/internal/utils"
	"github.com/xenocrm/crm-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Imports customers from a CSV file into MongoDB. Existing customers
// (matched by email) are updated in place.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}

	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "xenocrm"
	}

	if len(os.Args) < 2 {
		log.Fatal("CSV file path is required as a command line argument")
	}
	csvFilePath := os.Args[1]

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)

	imported, err := importCustomers(db, csvFilePath)
	if err != nil {
		log.Fatalf("Failed to import customers: %v", err)
	}

	log.Printf("Imported %d customers", imported)
}

func importCustomers(db *mongo.Database, csvFilePath string) (int, error) {
	file, err := os.Open(csvFilePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	records, errs := utils.ParseCustomerCSV(file)
	for _, err := range errs {
		log.Printf("Warning: %v", err)
	}

	collection := db.Collection("customers")
	imported := 0
	for _, record := range records {
		customer := record.Customer
		now := time.Now()
		_, err := collection.UpdateOne(
			context.Background(),
			bson.M{"email": customer.Email},
			bson.M{
				"$set": bson.M{
					"name":        customer.Name,
					"totalSpends": customer.TotalSpends,
					"visits":      customer.Visits,
					"lastVisit":   customer.LastVisit,
					"updatedAt":   now,
				},
				"$setOnInsert": bson.M{
					"email":     customer.Email,
					"createdAt": now,
				},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			log.Printf("Warning: Failed to import row %d: %v", record.Line, err)
			continue
		}
		imported++
	}

	return imported, nil
}
