package cmd

import (
	"errors"
	"fmt"

	"care4pets/internal/database"
	"care4pets/internal/models"
	"care4pets/internal/repositories"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert an admin account and sample products",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		if err := database.Migrate(rt.db); err != nil {
			return err
		}
		return seed(rt.db, seedOpts, rt.log)
	},
}

type seedOptions struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

var seedOpts seedOptions

func init() {
	seedCmd.Flags().StringVar(&seedOpts.AdminUsername, "admin-username", "admin", "admin account username")
	seedCmd.Flags().StringVar(&seedOpts.AdminEmail, "admin-email", "admin@care4pets.vn", "admin account email")
	seedCmd.Flags().StringVar(&seedOpts.AdminPassword, "admin-password", "admin123", "admin account password")
	rootCmd.AddCommand(seedCmd)
}

var sampleProducts = []models.Product{
	{Name: "Royal Canin Mini Adult 2kg", Category: "food", Price: 385000, SalePrice: 349000, Stock: 40},
	{Name: "Whiskas Tuna 1.2kg", Category: "food", Price: 145000, Stock: 60},
	{Name: "Cát vệ sinh đậu nành 6L", Category: "litter", Price: 120000, SalePrice: 99000, Stock: 80},
	{Name: "Vòng cổ chống ve rận", Category: "accessories", Price: 95000, Stock: 35},
	{Name: "Sữa tắm SOS cho chó", Category: "care", Price: 110000, Stock: 50},
	{Name: "Nhà cây cho mèo 3 tầng", Category: "accessories", Price: 890000, SalePrice: 750000, Stock: 8},
}

// seed is idempotent: an existing admin is kept and products are only added
// to an empty catalog.
func seed(db *gorm.DB, opts seedOptions, log *zap.Logger) error {
	users := repositories.NewGORMUserRepository(db)
	products := repositories.NewGORMProductRepository(db)

	_, err := users.GetByUsername(opts.AdminUsername)
	switch {
	case err == nil:
		log.Info("Admin account already exists", zap.String("username", opts.AdminUsername))
	case errors.Is(err, repositories.ErrNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := &models.User{
			Username: opts.AdminUsername,
			Email:    opts.AdminEmail,
			Password: string(hash),
			FullName: "Care4Pets Admin",
			Role:     models.RoleAdmin,
		}
		if err := users.Create(admin); err != nil {
			return err
		}
		log.Info("Seeded admin account", zap.String("username", admin.Username))
	default:
		return err
	}

	_, count, err := products.List(repositories.ProductFilter{Pagination: repositories.NewPagination(1, 1)})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("Catalog not empty, skipping sample products", zap.Int64("count", count))
		return nil
	}
	for _, p := range sampleProducts {
		product := p
		if err := products.Create(&product); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", product.Name, err)
		}
	}
	log.Info("Seeded sample products", zap.Int("count", len(sampleProducts)))
	return nil
}
