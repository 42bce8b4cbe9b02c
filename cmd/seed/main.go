package main

import (
	"context"
	"fmt"
	"time"

	"catalog-api/internal/config"
	"catalog-api/internal/database"
	"catalog-api/internal/logger"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"go.uber.org/zap"
)

const (
	phoneImage = "https://i.zst.com.br/thumbs/12/29/19/-846658799.jpg"
	sofaImage  = "https://rufermoveis.com.br/wp-content/uploads/Sofa-Retratil-Reclinavel-2.30m-Emanuelly-Veludo-Azul.jpg"
	shirtImage = "https://img.elo7.com.br/product/original/17B1547/camisa-sublimacao-poliester.jpg"
)

var sampleProducts = []service.StoreProductInput{
	{Title: "Smartphone", Description: "Smartphone top de linha", Price: 7000, UnitsInStock: 6, Images: []string{phoneImage}, Category: "eletronicos"},
	{Title: "Smartphone 2", Description: "Smartphone top de linha", Price: 5000, UnitsInStock: 10, Images: []string{phoneImage}, Category: "eletronicos"},
	{Title: "Sofa", Description: "Sofa top de linha", Price: 1000, UnitsInStock: 10, Images: []string{sofaImage}, Category: "moveis"},
	{Title: "Sofa 2", Description: "Sofa top de linha", Price: 10000, UnitsInStock: 2, Images: []string{sofaImage}, Category: "moveis"},
	{Title: "Camisa", Description: "Camisa top de linha", Price: 1000, UnitsInStock: 10, Images: []string{shirtImage}, Category: "roupas"},
	{Title: "Camisa 2", Description: "Camisa top de linha", Price: 1200, UnitsInStock: 10, Images: []string{shirtImage}, Category: "roupas"},
}

// seed stores every sample product; categories are created on first use
func seed(ctx context.Context, products service.ProductService, log *zap.Logger) error {
	for _, input := range sampleProducts {
		product, err := products.Store(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to seed %q: %w", input.Title, err)
		}

		log.Info("Product seeded",
			zap.String("product_id", product.ID.String()),
			zap.String("title", product.Title),
			zap.String("category", input.Category),
		)
	}

	return nil
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, "catalog-seed")
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbService, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbService.Close()

	db := dbService.DB()
	defer db.Close()

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	version, err := database.CurrentVersion(db)
	if err != nil {
		log.Fatal("Failed to read migration version", zap.Error(err))
	}

	log.Info("Start seeding", zap.Int64("schema_version", version), zap.Int("products", len(sampleProducts)))

	pool := dbService.Pool()
	productService := service.NewProductService(
		repository.NewProductRepository(pool),
		repository.NewCategoryRepository(pool),
		repository.NewImageRepository(pool),
		manager.Must(trmpgx.NewDefaultFactory(pool)),
	)

	if err := seed(ctx, productService, log); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}

	log.Info("Seeding finished")
}
